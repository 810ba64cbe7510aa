package token

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/clothes-shop/internal/config"
	"github.com/example/clothes-shop/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))
	return db
}

func TestSignAccessToken(t *testing.T) {
	secret := []byte("access-secret")

	raw, err := SignAccessToken(7, "admin", secret)
	require.NoError(t, err)

	parsed, err := jwt.Parse(raw, func(tk *jwt.Token) (interface{}, error) { return secret, nil })
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims := parsed.Claims.(jwt.MapClaims)
	require.Equal(t, float64(7), claims["sub"])
	require.Equal(t, "admin", claims["role"])
}

func TestRotateToken(t *testing.T) {
	db := newTestDB(t)
	ts := &TokenService{
		DB:            db,
		JWTSecret:     []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
	}

	refresh, err := SignRefreshToken(3, "user", ts.RefreshSecret)
	require.NoError(t, err)
	require.NoError(t, SaveRefreshToken(db, refresh, 3, "user"))

	access, newRefresh, claims, err := ts.RotateToken(refresh)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, newRefresh)
	require.NotEqual(t, refresh, newRefresh)
	require.Equal(t, float64(3), claims["sub"])

	var stored models.RefreshToken
	require.NoError(t, db.Where("token = ?", newRefresh).First(&stored).Error)
	require.Equal(t, uint(3), stored.UserID)
}

func TestValidateRefreshRejectsAccessToken(t *testing.T) {
	db := newTestDB(t)
	secret := []byte("refresh-secret")

	// an access token lacks typ=refresh and must not pass
	raw, err := SignAccessToken(3, "user", secret)
	require.NoError(t, err)

	_, err = ValidateRefresh(raw, secret, db)
	require.Error(t, err)
}

func TestValidateRefreshRejectsRevoked(t *testing.T) {
	db := newTestDB(t)
	secret := []byte("refresh-secret")

	refresh, err := SignRefreshToken(3, "user", secret)
	require.NoError(t, err)
	require.NoError(t, SaveRefreshToken(db, refresh, 3, "user"))

	require.NoError(t, db.Model(&models.RefreshToken{}).
		Where("token = ?", refresh).
		Update("revoked", true).Error)

	_, err = ValidateRefresh(refresh, secret, db)
	require.Error(t, err)
	require.Contains(t, err.Error(), "revoked")
}

func TestValidateRefreshRejectsExpired(t *testing.T) {
	db := newTestDB(t)
	secret := []byte("refresh-secret")

	refresh, err := SignRefreshToken(3, "user", secret)
	require.NoError(t, err)

	record := models.RefreshToken{
		Token:     refresh,
		UserID:    3,
		Role:      "user",
		ExpiresAt: time.Now().Add(-time.Hour).Unix(),
	}
	require.NoError(t, db.Create(&record).Error)

	_, err = ValidateRefresh(refresh, secret, db)
	require.Error(t, err)
	require.Contains(t, err.Error(), "expired")
}
