package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/rosterpro-dev/rosterpro/backend/internal/domain"
	"github.com/rosterpro-dev/rosterpro/backend/internal/repository"
	"github.com/rosterpro-dev/rosterpro/backend/internal/roster"
	"golang.org/x/crypto/bcrypt"
)

// SeedUsers loads the employee directory from a CSV with a
// username,fullName,email,role header row. Existing usernames are kept as-is.
func SeedUsers(repo *repository.Repository, path string, password string) []*domain.User {
	file, err := os.Open(path)
	if err != nil {
		slog.Error("unable to open seed file", "path", path, "error", err)
		return nil
	}
	defer file.Close()

	reader := csv.NewReader(file)

	headers, err := reader.Read()
	if err != nil {
		slog.Error("unable to read header row", "error", err)
		return nil
	}

	col := map[string]int{}
	for i, header := range headers {
		col[header] = i
	}
	for _, required := range []string{"username", "fullName", "email", "role"} {
		if _, ok := col[required]; !ok {
			slog.Error("missing column in seed file", "column", required)
			return nil
		}
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("unable to hash the seed password", "error", err)
		return nil
	}

	users := []*domain.User{}
	for {
		row, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			slog.Error("unable to read seed file", "error", err)
			return users
		}

		username := row[col["username"]]
		if username == "" {
			slog.Error("row without username skipped", "row", row)
			continue
		}

		user, err := repo.GetUserByUsername(context.Background(), username)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrNotFound):
				user = &domain.User{
					Username:     username,
					PasswordHash: string(passwordHash),
					FullName:     row[col["fullName"]],
					Email:        row[col["email"]],
					Role:         domain.Role(row[col["role"]]),
				}

				if err := repo.CreateUser(context.Background(), user); err != nil {
					slog.Error("unable to create user", "username", username, "error", err)
					continue
				}
			default:
				slog.Error("unable to look up user", "username", username, "error", err)
				continue
			}
		}

		users = append(users, user)
	}

	slog.Info("users seeded", "count", len(users))
	return users
}

// SeedOnCallWeek creates a PRIMARY and a BACKUP shift for each of the next
// seven days, rotating through the given users. Occupied slots are left
// untouched.
func SeedOnCallWeek(repo *repository.Repository, users []*domain.User) {
	if len(users) < 2 {
		slog.Error("need at least two users to seed an on-call week")
		return
	}

	start := roster.Midnight(time.Now())
	created := 0
	for i := 0; i < 7; i++ {
		date := start.AddDate(0, 0, i)
		primary := users[i%len(users)]
		backup := users[(i+1)%len(users)]

		for _, assignment := range []struct {
			role domain.ShiftRole
			user *domain.User
		}{
			{domain.RolePrimary, primary},
			{domain.RoleBackup, backup},
		} {
			shift := &domain.Shift{
				Date:       date,
				AssigneeID: assignment.user.ID,
				Role:       assignment.role,
				Status:     domain.StatusScheduled,
			}
			if err := repo.CreateShift(context.Background(), shift); err != nil {
				if errors.Is(err, domain.ErrDuplicateShift) {
					continue
				}
				slog.Error("unable to create shift", "date", roster.Canonical(date), "role", assignment.role, "error", err)
				continue
			}
			created++
		}
	}

	slog.Info("on-call week seeded", "created", created)
}
