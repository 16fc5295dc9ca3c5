// Package export produces the admin CSV dump of registered users.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/savieapp/savie/internal/storage"
)

// RegisteredUsersCSV writes one row per fully registered user: full name,
// email, platform handle and first-contact date.
func RegisteredUsersCSV(ctx context.Context, store storage.Store, w io.Writer) error {
	users, err := store.RegisteredUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list registered users: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"full_name", "email", "username", "registered_at"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, user := range users {
		row := []string{
			*user.FullName,
			*user.Email,
			user.Username,
			time.Unix(user.CreatedAt, 0).UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write user row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}
