package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codepay/kin"
	"codepay/tray"
)

const testPhrase = "couple divorce usage surprise before range feature source bubble chunk spot away"

func TestParseCSVToBalances(t *testing.T) {
	tests := []struct {
		name    string
		content [][]string
		want    map[tray.AccountType]kin.Kin
		wantErr bool
	}{
		{
			name:    "empty",
			content: nil,
			wantErr: true,
		},
		{
			name:    "header only",
			content: [][]string{{"account", "quarks"}},
			want:    map[tray.AccountType]kin.Kin{},
		},
		{
			name: "valid rows",
			content: [][]string{
				{"account", "quarks"},
				{"primary", "100000"},
				{"bucket:3", " 42 "},
				{"relationship:getcode.com", "7"},
			},
			want: map[tray.AccountType]kin.Kin{
				tray.Primary:                     kin.FromQuarks(100000),
				tray.Bucket(3):                   kin.FromQuarks(42),
				tray.Relationship("getcode.com"): kin.FromQuarks(7),
			},
		},
		{
			name:    "wrong column count",
			content: [][]string{{"account", "quarks"}, {"primary"}},
			wantErr: true,
		},
		{
			name:    "unknown account",
			content: [][]string{{"account", "quarks"}, {"savings", "1"}},
			wantErr: true,
		},
		{
			name:    "bad amount",
			content: [][]string{{"account", "quarks"}, {"primary", "-1"}},
			wantErr: true,
		},
		{
			name:    "duplicate account",
			content: [][]string{{"account", "quarks"}, {"primary", "1"}, {"primary", "2"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCSVToBalances(tt.content)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(args)
	err := RootCmd.Execute()
	return out.String(), err
}

func TestPlanCommand(t *testing.T) {
	dir := t.TempDir()
	balances := filepath.Join(dir, "balances.csv")
	require.NoError(t, os.WriteFile(balances, []byte("account,quarks\nprimary,"+
		"10000000\n"), 0o600))

	out, err := execute(t, "plan", "--mnemonic", testPhrase, "--balances", balances,
		"--kind", "deposit", "--quarks", "10000000")
	require.NoError(t, err, out)
	assert.Contains(t, out, "(deposit)")
	assert.Contains(t, out, "balances.bucket:1")
	assert.Contains(t, out, "balances.bucket:0")
	assert.Contains(t, out, "balances.primary")

	_, err = execute(t, "plan", "--mnemonic", "not a phrase", "--kind", "deposit", "--quarks", "1")
	assert.Error(t, err)
}

func TestPayloadCommand(t *testing.T) {
	out, err := execute(t, "payload", "encode", "--kind", "cash", "--quarks", "1000", "--nonce", "0102030405060708090a0b")
	require.NoError(t, err, out)
	assert.Contains(t, out, "data:       00e803000000000000")

	decoded, err := execute(t, "payload", "decode", "00e8030000000000000102030405060708090a0b")
	require.NoError(t, err, decoded)
	assert.Equal(t, out, decoded)
}
