package keys_test

import (
	"encoding/hex"
	"encoding/json"
	"testing"

	"codepay/keys"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const solanaVectorPhrase = "water cook crack oval quarter hood assault horror amateur little cross blind ginger business visit opera maze much mansion force mask orange tiny sunny"

func TestParseMnemonicSeed(t *testing.T) {
	m, err := keys.ParseMnemonic("abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about", "TREZOR")
	require.NoError(t, err)

	assert.Equal(t,
		"c55257c360c07c72029aebc1b53c05ed0362ada38ead3e3e9efa3708e53495531f09a6987599d18264c1e1c92f2cf141630c7a3c4ab7c81b2f001698e7463b04",
		hex.EncodeToString(m.Seed()))
	assert.Len(t, m.Words(), 12)
	assert.NotContains(t, m.String(), "abandon")
}

func TestParseMnemonicInvalid(t *testing.T) {
	_, err := keys.ParseMnemonic("abandon abandon abandon", "")
	assert.Error(t, err)

	_, err = keys.ParseMnemonic("abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon", "")
	assert.Error(t, err, "checksum mismatch")
}

func TestNewMnemonic(t *testing.T) {
	a, err := keys.NewMnemonic()
	require.NoError(t, err)
	b, err := keys.NewMnemonic()
	require.NoError(t, err)

	assert.Len(t, a.Words(), 12)
	assert.NotEqual(t, a.Phrase(), b.Phrase())

	again, err := keys.ParseMnemonic(a.Phrase(), "")
	require.NoError(t, err)
	assert.Equal(t, a.Seed(), again.Seed())
}

func TestDeriveSolanaPaths(t *testing.T) {
	m, err := keys.ParseMnemonic(solanaVectorPhrase, "")
	require.NoError(t, err)

	tests := []struct {
		path string
		want string
	}{
		{"m/44'/501'/0'", "AyjSj7ZENSwFXQ2hx3YuUJhbStCJiHHhVvPx8kcjkdDB"},
		{"m/44'/501'/1'", "FCbFiDNt7xEYGdQ8n5RfzjPoMHEwrs5J3Nq7C6kuREjc"},
		{"m/44'/501'/0'/0'", "ATb2xLK72ryvD62G4V7Xhd5iwwean97YWvXNoMXQPbi1"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			key, err := m.Derive(keys.MustParsePath(tt.path))
			require.NoError(t, err)
			assert.Equal(t, tt.want, key.PublicKey().String())
			assert.Equal(t, tt.path, key.Path.String())
		})
	}
}

func TestParsePath(t *testing.T) {
	p, err := keys.ParsePath("m/44'/501'/0'/0'")
	require.NoError(t, err)
	assert.Equal(t, keys.PrimaryPath(), p)

	for _, bad := range []string{"", "44'/501'", "m/44/501'", "m/x'"} {
		t.Run(bad, func(t *testing.T) {
			_, err := keys.ParsePath(bad)
			assert.Error(t, err)
		})
	}
}

func TestAccountPaths(t *testing.T) {
	assert.Equal(t, "m/44'/501'/0'/0'", keys.PrimaryPath().String())
	assert.Equal(t, "m/44'/501'/0'/0'/0'/1000'", keys.BucketPath(1000).String())
	assert.Equal(t, "m/44'/501'/0'/0'/7'/2'", keys.IncomingPath(7).String())
	assert.Equal(t, "m/44'/501'/0'/0'/7'/3'", keys.OutgoingPath(7).String())

	rel := keys.RelationshipPath("getcode.com")
	assert.Len(t, rel, 6)
	assert.Equal(t, rel, keys.RelationshipPath("GetCode.com"))
	assert.NotEqual(t, rel, keys.RelationshipPath("example.com"))
}

func TestPublicKeyText(t *testing.T) {
	pk, err := keys.ParsePublicKey("BuAprBZugjXG6QRbRQN8QKF8EzbW5SigkDuyR9KtqN5z")
	require.NoError(t, err)
	assert.Equal(t, "BuAprBZugjXG6QRbRQN8QKF8EzbW5SigkDuyR9KtqN5z", pk.String())

	raw, err := json.Marshal(map[string]keys.PublicKey{"k": pk})
	require.NoError(t, err)
	assert.JSONEq(t, `{"k":"BuAprBZugjXG6QRbRQN8QKF8EzbW5SigkDuyR9KtqN5z"}`, string(raw))

	var back map[string]keys.PublicKey
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, pk, back["k"])

	_, err = keys.ParsePublicKey("0OIl")
	assert.Error(t, err)
	_, err = keys.ParsePublicKey("3yZe7d")
	assert.Error(t, err)
}

func TestKeyPairSign(t *testing.T) {
	kp, err := keys.GenerateKeyPair()
	require.NoError(t, err)

	sig := kp.Sign([]byte("hello"))
	assert.True(t, keys.Verify(kp.Public, []byte("hello"), sig))
	assert.False(t, keys.Verify(kp.Public, []byte("other"), sig))

	again, err := keys.KeyPairFromSeed(kp.Seed())
	require.NoError(t, err)
	assert.Equal(t, kp.Public, again.Public)

	_, err = keys.KeyPairFromSeed([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestTimelockDerivation(t *testing.T) {
	owner := keys.MustParsePublicKey("BuAprBZugjXG6QRbRQN8QKF8EzbW5SigkDuyR9KtqN5z")

	accounts, err := keys.DeriveTimelockAccounts(owner, keys.DefaultTimelockConfig())
	require.NoError(t, err)

	assert.Equal(t, owner, accounts.Owner)
	assert.Equal(t, "7Ema8Z4gAUWegampp2AuX4cvaTRy3VMwJUq8LMJshQTV", accounts.State.PublicKey.String())
	assert.Equal(t, uint8(254), accounts.State.Bump)
	assert.Equal(t, "3538bYdWoRXUgBbyAyvG3Zemmawh75nmCQEvWc9DfKFR", accounts.Vault.PublicKey.String())
	assert.Equal(t, uint8(255), accounts.Vault.Bump)
}

func TestFindProgramAddressSeedLimits(t *testing.T) {
	program := keys.MustParsePublicKey("time2Z2SCnn3qYg3ULKVtdkh8YmZ5jFdKicnA1W2YnJ")

	tooMany := make([][]byte, 16)
	_, err := keys.FindProgramAddress(tooMany, program)
	assert.Error(t, err)

	_, err = keys.FindProgramAddress([][]byte{make([]byte, 33)}, program)
	assert.Error(t, err)
}
