// session-token выпускает пару токенов для живого аккаунта и печатает её в stdout (JSON).
// Нужен для локальной отладки админки, пока вход по паролю живёт в другом сервисе.
//
//	session-token --config ./local.yaml --account 652f1c... [--remember]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pribylovaa/session-service/internal/config"
	"github.com/pribylovaa/session-service/internal/models"
	"github.com/pribylovaa/session-service/internal/service"
	"github.com/pribylovaa/session-service/internal/storage/mongo"
	"github.com/pribylovaa/session-service/internal/token"
)

type output struct {
	User struct {
		ID       string      `json:"id"`
		Username string      `json:"username"`
		Role     models.Role `json:"role"`
	} `json:"user"`
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"refreshToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

func main() {
	var (
		configPath string
		accountID  string
		remember   bool
	)
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.StringVar(&accountID, "account", "", "account id to issue tokens for")
	flag.BoolVar(&remember, "remember", false, "issue a long-lived refresh token")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(log)

	if accountID == "" {
		fmt.Fprintln(os.Stderr, "--account is required")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(configPath, accountID, remember); err != nil {
		log.Error("issue_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
}

func run(configPath, accountID string, remember bool) error {
	const op = "session-token.run"

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	str, err := mongo.New(ctx, cfg.DB.URL)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = str.Close(context.Background()) }()

	codec, err := token.New(token.Config{
		Secret:    cfg.Auth.JWTSecret,
		AccessTTL: cfg.Auth.AccessTokenTTL,
		Issuer:    cfg.Auth.Issuer,
		Leeway:    cfg.Auth.Leeway,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	sess, err := service.New(str, codec, cfg.Auth).IssueSession(ctx, accountID, remember)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var out output
	out.User.ID = sess.Account.ID
	out.User.Username = sess.Account.Username
	out.User.Role = sess.Account.Role
	out.AccessToken = sess.Pair.AccessToken
	out.RefreshToken = sess.Pair.RefreshToken
	out.AccessExpiresAt = sess.Pair.AccessExpiresAt
	out.RefreshExpiresAt = sess.Pair.RefreshExpiresAt

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(out)
}
