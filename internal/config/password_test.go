package config

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPasswordConfig(pepper string) *PasswordConfig {
	return &PasswordConfig{BcryptCost: 4, Pepper: pepper, MinLength: 6}
}

func TestNewPasswordConfig(t *testing.T) {
	tests := []struct {
		name       string
		bcryptCost string
		minLength  string
		wantCost   int
		wantMin    int
		wantErr    bool
	}{
		{name: "defaults", wantCost: 12, wantMin: 6},
		{name: "custom cost", bcryptCost: "10", wantCost: 10, wantMin: 6},
		{name: "minimum bcrypt cost", bcryptCost: "4", wantCost: 4, wantMin: 6},
		{name: "cost too low", bcryptCost: "3", wantErr: true},
		{name: "cost too high", bcryptCost: "15", wantErr: true},
		{name: "non-numeric cost", bcryptCost: "high", wantErr: true},
		{name: "custom min length", minLength: "10", wantCost: 12, wantMin: 10},
		{name: "zero min length", minLength: "0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BCRYPT_COST", tt.bcryptCost)
			t.Setenv("PASSWORD_MIN_LENGTH", tt.minLength)
			t.Setenv("PASSWORD_PEPPER", "")

			cfg, err := NewPasswordConfig()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCost, cfg.BcryptCost)
			assert.Equal(t, tt.wantMin, cfg.MinLength)
		})
	}
}

func TestNewPasswordConfig_ReadsPepper(t *testing.T) {
	t.Setenv("BCRYPT_COST", "")
	t.Setenv("PASSWORD_PEPPER", "pepper")

	cfg, err := NewPasswordConfig()
	require.NoError(t, err)
	assert.Equal(t, "pepper", cfg.Pepper)
}

func TestPasswordConfig_HashAndVerify(t *testing.T) {
	cfg := testPasswordConfig("")

	hash, err := cfg.HashPassword("123456")
	require.NoError(t, err)
	assert.NotEqual(t, "123456", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$04$"))

	assert.True(t, cfg.VerifyPassword("123456", hash))
	assert.False(t, cfg.VerifyPassword("654321", hash))
	assert.False(t, cfg.VerifyPassword("123456", "not-a-hash"))
}

func TestPasswordConfig_Pepper(t *testing.T) {
	peppered := testPasswordConfig("server-pepper")
	hash, err := peppered.HashPassword("secret-pw")
	require.NoError(t, err)

	assert.True(t, peppered.VerifyPassword("secret-pw", hash))
	assert.False(t, testPasswordConfig("").VerifyPassword("secret-pw", hash), "verification needs the same pepper")
	assert.False(t, testPasswordConfig("rotated").VerifyPassword("secret-pw", hash))
}

func TestPasswordConfig_SaltUniqueness(t *testing.T) {
	cfg := testPasswordConfig("")
	h1, err := cfg.HashPassword("same-password")
	require.NoError(t, err)
	h2, err := cfg.HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.True(t, cfg.VerifyPassword("same-password", h1))
	assert.True(t, cfg.VerifyPassword("same-password", h2))
}

func TestPasswordConfig_CheckPolicy(t *testing.T) {
	cfg := testPasswordConfig("")

	assert.NoError(t, cfg.CheckPolicy("123456"))
	assert.NoError(t, cfg.CheckPolicy("密码密码密码"), "length counts characters, not bytes")
	assert.ErrorIs(t, cfg.CheckPolicy("12345"), ErrPasswordTooShort)
	assert.ErrorIs(t, cfg.CheckPolicy(strings.Repeat("a", 73)), ErrPasswordTooLong)

	peppered := testPasswordConfig(strings.Repeat("p", 10))
	assert.ErrorIs(t, peppered.CheckPolicy(strings.Repeat("a", 63)), ErrPasswordTooLong)
	assert.NoError(t, peppered.CheckPolicy(strings.Repeat("a", 62)))
}

func TestPasswordConfig_ConcurrentAccess(t *testing.T) {
	cfg := testPasswordConfig("pepper")
	hash, err := cfg.HashPassword("concurrent")
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]bool, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = cfg.VerifyPassword("concurrent", hash)
		}(i)
	}
	wg.Wait()

	for _, ok := range results {
		assert.True(t, ok)
	}
}
