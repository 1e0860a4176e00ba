package action

import (
	"crypto/sha256"
	"encoding/binary"

	"codepay/config"
	"codepay/keys"
)

var (
	sysvarRecentBlockhashes = keys.MustParsePublicKey("SysvarRecentB1ockHashes11111111111111111111")
	systemProgram           = keys.MustParsePublicKey(config.SystemProgram())
)

const (
	advanceNonceIndex = 4

	discriminatorSize = 8
)

// AccountMeta represents the account information required
// for building transactions.
type AccountMeta struct {
	PublicKey  keys.PublicKey `json:"publicKey"`
	IsWritable bool           `json:"isWritable"`
	IsSigner   bool           `json:"isSigner"`
}

// Instruction represents a transaction instruction.
type Instruction struct {
	Program  keys.PublicKey `json:"program"`
	Accounts []AccountMeta  `json:"accounts"`
	Data     []byte         `json:"data"`
}

// Transaction is the instructions compiled against one nonce config.
type Transaction struct {
	Nonce        NonceConfig   `json:"nonce"`
	Instructions []Instruction `json:"instructions"`
}

// Compiler turns actions with server parameters into instructions.
type Compiler struct {
	Timelock   keys.TimelockConfig
	Subsidizer keys.PublicKey
}

// Instructions compiles one transaction per nonce config: an advance nonce
// instruction followed by the timelock instructions for the action.
func (c Compiler) Instructions(a Action) ([]Transaction, error) {
	if a.ServerParameter == nil || len(a.ServerParameter.Configs) == 0 {
		return nil, ErrMissingServerParameter
	}
	role, err := c.roleInstructions(a)
	if err != nil {
		return nil, err
	}
	txns := make([]Transaction, 0, len(a.ServerParameter.Configs))
	for _, nc := range a.ServerParameter.Configs {
		ixns := append([]Instruction{c.advanceNonce(nc.Nonce)}, role...)
		txns = append(txns, Transaction{Nonce: nc, Instructions: ixns})
	}
	return txns, nil
}

func (c Compiler) advanceNonce(nonce keys.PublicKey) Instruction {
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, advanceNonceIndex)
	return Instruction{
		Program: systemProgram,
		Accounts: []AccountMeta{
			{PublicKey: nonce, IsWritable: true},
			{PublicKey: sysvarRecentBlockhashes},
			{PublicKey: c.Subsidizer, IsSigner: true},
		},
		Data: data,
	}
}

func (c Compiler) roleInstructions(a Action) ([]Instruction, error) {
	param := a.ServerParameter.Parameter
	switch a.Kind {
	case KindOpenAccount:
		return []Instruction{c.initialize(a.OpenAccount.Cluster.Timelock)}, nil
	case KindTransfer:
		t := a.Transfer
		return []Instruction{c.transferWithAuthority(t.Source.Timelock, t.Destination, t.Amount.Quarks(), param.TempPrivacy)}, nil
	case KindWithdraw:
		w := a.Withdraw
		return []Instruction{
			c.withdraw(w.Source.Timelock, w.Destination),
			c.closeAccounts(w.Source.Timelock),
		}, nil
	case KindCloseEmptyAccount:
		return []Instruction{c.closeAccounts(a.CloseEmptyAccount.Cluster.Timelock)}, nil
	case KindFeePayment:
		f := a.FeePayment
		dest := f.Destination
		if dest == nil && param.FeePayment != nil {
			dest = param.FeePayment.Destination
		}
		if dest == nil {
			return nil, ErrMissingFeeDestination
		}
		return []Instruction{c.transferWithAuthority(f.Source.Timelock, *dest, f.Amount.Quarks(), nil)}, nil
	}
	return nil, nil
}

func (c Compiler) initialize(t keys.TimelockAccounts) Instruction {
	var offset int
	data := make([]byte, discriminatorSize+1)
	putDiscriminator(data, "initialize", &offset)
	putUint8(data, keys.TimelockLockoutDays, &offset)
	return Instruction{
		Program: c.Timelock.Program,
		Accounts: []AccountMeta{
			{PublicKey: t.State.PublicKey, IsWritable: true},
			{PublicKey: t.Vault.PublicKey, IsWritable: true},
			{PublicKey: t.Owner},
			{PublicKey: c.Timelock.Mint},
			{PublicKey: c.Timelock.TimeAuthority, IsSigner: true},
			{PublicKey: c.Subsidizer, IsWritable: true, IsSigner: true},
			{PublicKey: systemProgram},
		},
		Data: data,
	}
}

func (c Compiler) transferWithAuthority(t keys.TimelockAccounts, dest keys.PublicKey, quarks uint64, temp *TempPrivacyParameter) Instruction {
	var offset int
	size := discriminatorSize + 1 + 8
	if temp != nil {
		size += HashSize
	}
	data := make([]byte, size)
	putDiscriminator(data, "transfer_with_authority", &offset)
	putUint8(data, t.Vault.Bump, &offset)
	putUint64(data, quarks, &offset)

	accounts := []AccountMeta{
		{PublicKey: t.State.PublicKey},
		{PublicKey: t.Vault.PublicKey, IsWritable: true},
		{PublicKey: t.Owner, IsSigner: true},
		{PublicKey: c.Timelock.TimeAuthority, IsSigner: true},
		{PublicKey: dest, IsWritable: true},
		{PublicKey: c.Subsidizer, IsSigner: true},
	}
	if temp != nil {
		putHash(data, temp.RecentRoot, &offset)
		accounts = append(accounts, AccountMeta{PublicKey: temp.Treasury})
	}
	return Instruction{Program: c.Timelock.Program, Accounts: accounts, Data: data}
}

func (c Compiler) withdraw(t keys.TimelockAccounts, dest keys.PublicKey) Instruction {
	var offset int
	data := make([]byte, discriminatorSize+1)
	putDiscriminator(data, "withdraw", &offset)
	putUint8(data, t.Vault.Bump, &offset)
	return Instruction{
		Program: c.Timelock.Program,
		Accounts: []AccountMeta{
			{PublicKey: t.State.PublicKey},
			{PublicKey: t.Vault.PublicKey, IsWritable: true},
			{PublicKey: t.Owner, IsSigner: true},
			{PublicKey: dest, IsWritable: true},
			{PublicKey: c.Subsidizer, IsSigner: true},
		},
		Data: data,
	}
}

func (c Compiler) closeAccounts(t keys.TimelockAccounts) Instruction {
	var offset int
	data := make([]byte, discriminatorSize+1)
	putDiscriminator(data, "close_accounts", &offset)
	putUint8(data, t.Vault.Bump, &offset)
	return Instruction{
		Program: c.Timelock.Program,
		Accounts: []AccountMeta{
			{PublicKey: t.State.PublicKey, IsWritable: true},
			{PublicKey: t.Vault.PublicKey, IsWritable: true},
			{PublicKey: c.Timelock.TimeAuthority, IsSigner: true},
			{PublicKey: c.Subsidizer, IsWritable: true, IsSigner: true},
		},
		Data: data,
	}
}

func putDiscriminator(dst []byte, name string, offset *int) {
	sum := sha256.Sum256([]byte("global:" + name))
	copy(dst[*offset:], sum[:discriminatorSize])
	*offset += discriminatorSize
}

func putUint8(dst []byte, v uint8, offset *int) {
	dst[*offset] = v
	*offset++
}

func putUint64(dst []byte, v uint64, offset *int) {
	binary.LittleEndian.PutUint64(dst[*offset:], v)
	*offset += 8
}

func putHash(dst []byte, h Hash, offset *int) {
	copy(dst[*offset:], h[:])
	*offset += HashSize
}
