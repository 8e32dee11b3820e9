// Package testutil holds fixtures shared by package tests. Production code
// must not import it.
package testutil

import (
	"context"
	"fmt"
	"time"

	"pairtime-api/core/database"
	"pairtime-api/core/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SignToken issues an HS256 access token for userID the way the identity
// service does.
func SignToken(userID uuid.UUID, secret []byte, claims jwt.RegisteredClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &utils.TokenClaims{
		UserID:           userID,
		RegisteredClaims: claims,
	})
	return token.SignedString(secret)
}

// PairUsers writes the two pairing rows linking a and b.
func PairUsers(ctx context.Context, db database.IDatabase, a, b uuid.UUID, at time.Time) error {
	for _, link := range [][2]uuid.UUID{{a, b}, {b, a}} {
		if err := db.ExecContext(ctx, db.Rebind(`DELETE FROM pairs WHERE user_id = ?`), link[0].String()); err != nil {
			return fmt.Errorf("unpair: %w", err)
		}
		query := db.Rebind(`INSERT INTO pairs (user_id, partner_id, created_at) VALUES (?, ?, ?)`)
		if err := db.ExecContext(ctx, query, link[0].String(), link[1].String(), at.UTC()); err != nil {
			return fmt.Errorf("pair: %w", err)
		}
	}
	return nil
}
