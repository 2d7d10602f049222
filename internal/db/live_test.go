package db

import (
	"context"
	"fmt"
	"os"
	"testing"
)

// TestLiveDatabase opens the real state database and prints the current
// session. Skipped if the database doesn't exist.
func TestLiveDatabase(t *testing.T) {
	dbPath := DefaultDBPath(os.Getenv("MINUTES_STATE_DIR"))
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Skip("database not found at", dbPath)
	}

	store, err := Open(dbPath, "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	info, err := store.Info(context.Background())
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	fmt.Printf("Session: id=%s created=%s\n", info.ID, info.CreatedAt.Format("2006-01-02 15:04:05"))
	for _, sl := range info.Slots {
		fmt.Printf("  %s = %q (updated %s)\n", sl.Key, sl.Value, sl.UpdatedAt.Format("15:04:05"))
	}
}
