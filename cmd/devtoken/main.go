// Command devtoken issues a session token pair for operators and tests.
// The signing secret comes from the same configuration as the server
// (EDU_AUTH_JWT_SECRET or config.yaml).
//
//	devtoken -user 3f0c... -role student
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/edu-api/internal/config"
	"github.com/phrazzld/edu-api/internal/service/auth"
)

type output struct {
	UserID       uuid.UUID `json:"user_id"`
	Role         string    `json:"role"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    string    `json:"expires_at"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "devtoken: %v\n", err)
		os.Exit(1)
	}
	if err := run(os.Args[1:], cfg.Auth, time.Now(), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "devtoken: %v\n", err)
		os.Exit(2)
	}
}

func run(args []string, cfg config.AuthConfig, now time.Time, out io.Writer) error {
	fs := flag.NewFlagSet("devtoken", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	user := fs.String("user", "", "user id (random when empty)")
	role := fs.String("role", auth.RoleStudent, "role claim")
	if err := fs.Parse(args); err != nil {
		return err
	}

	userID := uuid.New()
	if *user != "" {
		parsed, err := uuid.Parse(*user)
		if err != nil {
			return fmt.Errorf("invalid user id %q: %w", *user, err)
		}
		userID = parsed
	}

	svc, err := auth.NewJWTService(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	access, err := svc.GenerateToken(ctx, userID, *role)
	if err != nil {
		return err
	}
	refresh, err := svc.GenerateRefreshToken(ctx, userID, *role)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(output{
		UserID:       userID,
		Role:         *role,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(time.Duration(cfg.TokenLifetimeMinutes) * time.Minute).UTC().Format(time.RFC3339),
	})
}
