package tray

import (
	"fmt"
	"sort"

	"codepay/keys"
	"codepay/kin"
)

// DefaultDenominations are the bill values, in whole Kin, of the buckets.
var DefaultDenominations = []uint64{1, 10, 100, 1_000, 10_000, 100_000, 1_000_000}

// maxBillsPerExchange caps how many bills a single exchange may move.
const maxBillsPerExchange = 9

type partialAccount struct {
	cluster AccountCluster
	balance kin.Kin
}

// Slot is a denomination bucket.
type Slot struct {
	Index        int            `json:"index"`
	Denomination uint64         `json:"denomination"`
	Cluster      AccountCluster `json:"cluster"`
	Balance      kin.Kin        `json:"quarks"`
}

func (s Slot) Type() AccountType {
	return Bucket(s.Index)
}

func (s Slot) BillValue() kin.Kin {
	return kin.FromKin(s.Denomination)
}

// BillCount is how many whole bills the bucket holds.
func (s Slot) BillCount() uint64 {
	return s.Balance.DivKin(s.Denomination)
}

// Tray holds every account of one owner and their last known balances.
// Methods with pointer receivers mutate the tray in place; callers that need
// value semantics work on a Clone.
type Tray struct {
	mnemonic      keys.Mnemonic
	timelock      keys.TimelockConfig
	denominations []uint64

	owner         partialAccount
	incoming      partialAccount
	outgoing      partialAccount
	slots         []Slot
	relationships map[string]partialAccount
}

type options struct {
	denominations []uint64
	timelock      *keys.TimelockConfig
}

type Option func(*options)

// WithDenominations replaces the default bucket ladder. Values must be
// strictly ascending and each must divide the next.
func WithDenominations(denominations ...uint64) Option {
	return func(o *options) {
		o.denominations = append([]uint64(nil), denominations...)
	}
}

func WithTimelockConfig(cfg keys.TimelockConfig) Option {
	return func(o *options) {
		o.timelock = &cfg
	}
}

func validateDenominations(d []uint64) error {
	if len(d) == 0 {
		return fmt.Errorf("%w: empty ladder", ErrInvalidDenominations)
	}
	if d[0] == 0 {
		return fmt.Errorf("%w: zero denomination", ErrInvalidDenominations)
	}
	// Denominations are path elements of the bucket accounts.
	if last := d[len(d)-1]; last > uint64(keys.MaxIndex) {
		return fmt.Errorf("%w: %d exceeds %d", ErrInvalidDenominations, last, keys.MaxIndex)
	}
	for i := 1; i < len(d); i++ {
		if d[i] <= d[i-1] || d[i]%d[i-1] != 0 {
			return fmt.Errorf("%w: %d does not follow %d", ErrInvalidDenominations, d[i], d[i-1])
		}
	}
	return nil
}

// New derives every account of the owner identified by m.
func New(m keys.Mnemonic, opts ...Option) (*Tray, error) {
	o := options{denominations: DefaultDenominations}
	for _, opt := range opts {
		opt(&o)
	}
	if err := validateDenominations(o.denominations); err != nil {
		return nil, err
	}
	cfg := keys.DefaultTimelockConfig()
	if o.timelock != nil {
		cfg = *o.timelock
	}

	t := &Tray{
		mnemonic:      m,
		timelock:      cfg,
		denominations: append([]uint64(nil), o.denominations...),
		relationships: map[string]partialAccount{},
	}

	owner, err := deriveCluster(m, 0, keys.PrimaryPath(), cfg)
	if err != nil {
		return nil, fmt.Errorf("derive primary account: %w", err)
	}
	t.owner = partialAccount{cluster: owner}

	t.slots = make([]Slot, len(t.denominations))
	for i, d := range t.denominations {
		cluster, err := deriveCluster(m, 0, keys.BucketPath(d), cfg)
		if err != nil {
			return nil, fmt.Errorf("derive bucket %d: %w", d, err)
		}
		t.slots[i] = Slot{Index: i, Denomination: d, Cluster: cluster}
	}

	if err := t.SetIndex(Incoming, 0); err != nil {
		return nil, err
	}
	if err := t.SetIndex(Outgoing, 0); err != nil {
		return nil, err
	}
	return t, nil
}

// Clone returns an independent copy.
func (t *Tray) Clone() *Tray {
	c := *t
	c.denominations = append([]uint64(nil), t.denominations...)
	c.slots = append([]Slot(nil), t.slots...)
	c.relationships = make(map[string]partialAccount, len(t.relationships))
	for k, v := range t.relationships {
		c.relationships[k] = v
	}
	return &c
}

func (t *Tray) Mnemonic() keys.Mnemonic {
	return t.mnemonic
}

func (t *Tray) Denominations() []uint64 {
	return append([]uint64(nil), t.denominations...)
}

func (t *Tray) IncrementIncoming() error {
	return t.SetIndex(Incoming, t.incoming.cluster.Index+1)
}

func (t *Tray) IncrementOutgoing() error {
	return t.SetIndex(Outgoing, t.outgoing.cluster.Index+1)
}

// SetIndex replaces the incoming or outgoing account with the one derived at
// index. The new account starts with a zero balance.
func (t *Tray) SetIndex(accountType AccountType, index int) error {
	if index < 0 || uint64(index) > uint64(keys.MaxIndex) {
		return fmt.Errorf("set %s to %d: %w", accountType, index, ErrInvalidIndex)
	}
	var path keys.Path
	switch accountType.Kind {
	case KindIncoming:
		path = keys.IncomingPath(uint32(index))
	case KindOutgoing:
		path = keys.OutgoingPath(uint32(index))
	default:
		return fmt.Errorf("set index on %s: %w", accountType, ErrUnsupportedAccount)
	}
	cluster, err := deriveCluster(t.mnemonic, index, path, t.timelock)
	if err != nil {
		return fmt.Errorf("derive %s %d: %w", accountType, index, err)
	}
	if accountType.Kind == KindIncoming {
		t.incoming = partialAccount{cluster: cluster}
	} else {
		t.outgoing = partialAccount{cluster: cluster}
	}
	return nil
}

// CreateRelationship derives the account for domain, or returns the existing one.
func (t *Tray) CreateRelationship(domain string) (AccountCluster, error) {
	key := Relationship(domain).Domain
	if existing, ok := t.relationships[key]; ok {
		return existing.cluster, nil
	}
	cluster, err := deriveCluster(t.mnemonic, 0, keys.RelationshipPath(key), t.timelock)
	if err != nil {
		return AccountCluster{}, fmt.Errorf("derive relationship %s: %w", key, err)
	}
	t.relationships[key] = partialAccount{cluster: cluster}
	return cluster, nil
}

func (t *Tray) Relationship(domain string) (AccountCluster, bool) {
	r, ok := t.relationships[Relationship(domain).Domain]
	return r.cluster, ok
}

// Domains lists relationship domains in sorted order.
func (t *Tray) Domains() []string {
	domains := make([]string, 0, len(t.relationships))
	for d := range t.relationships {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	return domains
}

// AllAccounts lists primary, incoming, outgoing, the buckets and then the
// relationships.
func (t *Tray) AllAccounts() []Account {
	accounts := []Account{
		{Type: Primary, Cluster: t.owner.cluster},
		{Type: Incoming, Cluster: t.incoming.cluster},
		{Type: Outgoing, Cluster: t.outgoing.cluster},
	}
	for _, s := range t.slots {
		accounts = append(accounts, Account{Type: s.Type(), Cluster: s.Cluster})
	}
	for _, d := range t.Domains() {
		accounts = append(accounts, Account{Type: Relationship(d), Cluster: t.relationships[d].cluster})
	}
	return accounts
}

func (t *Tray) Cluster(accountType AccountType) (AccountCluster, error) {
	switch accountType.Kind {
	case KindPrimary:
		return t.owner.cluster, nil
	case KindIncoming:
		return t.incoming.cluster, nil
	case KindOutgoing:
		return t.outgoing.cluster, nil
	case KindBucket:
		if !t.validSlot(accountType.Slot) {
			return AccountCluster{}, fmt.Errorf("%s: %w", accountType, ErrUnknownAccount)
		}
		return t.slots[accountType.Slot].Cluster, nil
	case KindRelationship:
		r, ok := t.relationships[accountType.Domain]
		if !ok {
			return AccountCluster{}, fmt.Errorf("%s: %w", accountType, ErrUnknownAccount)
		}
		return r.cluster, nil
	}
	return AccountCluster{}, fmt.Errorf("%s: %w", accountType, ErrUnsupportedAccount)
}

func (t *Tray) validSlot(i int) bool {
	return i >= 0 && i < len(t.slots)
}

func (t *Tray) SlotCount() int {
	return len(t.slots)
}

func (t *Tray) Slot(i int) (Slot, bool) {
	if !t.validSlot(i) {
		return Slot{}, false
	}
	return t.slots[i], true
}

func (t *Tray) Slots() []Slot {
	return append([]Slot(nil), t.slots...)
}

// SlotDown returns the next smaller bucket.
func (t *Tray) SlotDown(i int) (Slot, bool) {
	return t.Slot(i - 1)
}

// SlotUp returns the next larger bucket.
func (t *Tray) SlotUp(i int) (Slot, bool) {
	if !t.validSlot(i) {
		return Slot{}, false
	}
	return t.Slot(i + 1)
}

func (t *Tray) SlotsBalance() kin.Kin {
	var total kin.Kin
	for _, s := range t.slots {
		total = total.Add(s.Balance)
	}
	return total
}

func (t *Tray) AvailableDepositBalance() kin.Kin {
	return t.owner.balance
}

func (t *Tray) AvailableIncomingBalance() kin.Kin {
	return t.incoming.balance
}

func (t *Tray) AvailableRelationshipBalance() kin.Kin {
	var total kin.Kin
	for _, r := range t.relationships {
		total = total.Add(r.balance)
	}
	return total
}

// AvailableBalance is what the owner can spend privately.
func (t *Tray) AvailableBalance() kin.Kin {
	return t.SlotsBalance().Add(t.AvailableDepositBalance()).Add(t.AvailableIncomingBalance())
}

// PartialBalance returns zero for accounts the tray does not hold.
func (t *Tray) PartialBalance(accountType AccountType) kin.Kin {
	b, _ := t.balanceOf(accountType)
	return b
}

func (t *Tray) balanceOf(accountType AccountType) (kin.Kin, bool) {
	switch accountType.Kind {
	case KindPrimary:
		return t.owner.balance, true
	case KindIncoming:
		return t.incoming.balance, true
	case KindOutgoing:
		return t.outgoing.balance, true
	case KindBucket:
		if t.validSlot(accountType.Slot) {
			return t.slots[accountType.Slot].Balance, true
		}
	case KindRelationship:
		if r, ok := t.relationships[accountType.Domain]; ok {
			return r.balance, true
		}
	}
	return 0, false
}

func (t *Tray) setBalance(accountType AccountType, balance kin.Kin) bool {
	switch accountType.Kind {
	case KindPrimary:
		t.owner.balance = balance
	case KindIncoming:
		t.incoming.balance = balance
	case KindOutgoing:
		t.outgoing.balance = balance
	case KindBucket:
		if !t.validSlot(accountType.Slot) {
			return false
		}
		t.slots[accountType.Slot].Balance = balance
	case KindRelationship:
		r, ok := t.relationships[accountType.Domain]
		if !ok {
			return false
		}
		r.balance = balance
		t.relationships[accountType.Domain] = r
	default:
		return false
	}
	return true
}

// SetBalances overwrites the listed balances and leaves the rest untouched.
// Nothing is applied if any account is unknown.
func (t *Tray) SetBalances(balances map[AccountType]kin.Kin) error {
	for accountType := range balances {
		if _, ok := t.balanceOf(accountType); !ok {
			return fmt.Errorf("set balance of %s: %w", accountType, ErrUnknownAccount)
		}
	}
	for accountType, b := range balances {
		t.setBalance(accountType, b)
	}
	return nil
}

// Balances returns every known balance keyed by account type.
func (t *Tray) Balances() map[AccountType]kin.Kin {
	out := make(map[AccountType]kin.Kin, len(t.slots)+3+len(t.relationships))
	for _, a := range t.AllAccounts() {
		out[a.Type] = t.PartialBalance(a.Type)
	}
	return out
}

// Increment credits an account.
func (t *Tray) Increment(accountType AccountType, amount kin.Kin) error {
	b, ok := t.balanceOf(accountType)
	if !ok {
		return fmt.Errorf("increment %s: %w", accountType, ErrUnknownAccount)
	}
	t.setBalance(accountType, b.Add(amount))
	return nil
}

// Decrement debits an account and fails rather than going negative.
func (t *Tray) Decrement(accountType AccountType, amount kin.Kin) error {
	b, ok := t.balanceOf(accountType)
	if !ok {
		return fmt.Errorf("decrement %s: %w", accountType, ErrUnknownAccount)
	}
	if b < amount {
		return fmt.Errorf("decrement %s by %s: %w", accountType, amount, ErrInsufficientBalance)
	}
	t.setBalance(accountType, b.Sub(amount))
	return nil
}

// move is the internal transfer used by the exchange algorithms, which
// check balances before calling it.
func (t *Tray) move(from, to AccountType, amount kin.Kin) {
	fb, _ := t.balanceOf(from)
	t.setBalance(from, fb.Sub(amount))
	tb, _ := t.balanceOf(to)
	t.setBalance(to, tb.Add(amount))
}
