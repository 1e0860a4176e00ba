package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"codepay/db/db"
	"codepay/intent"
	"codepay/keys"
	"codepay/kin"
	"codepay/libs/diff"
	"codepay/mq/mq"
	"codepay/organizer"
	"codepay/tray"
)

// walletEntry serializes the writes of one wallet. The organizer guards the
// tray itself; the entry lock also covers the storage round trips around it.
type walletEntry struct {
	mu  sync.Mutex
	org *organizer.Organizer
}

// Service plans and commits intents for stored wallets and publishes their
// lifecycle events.
type Service struct {
	db      db.WalletDBWrapper
	mq      mq.IntentMessageQueueWrapper
	metrics *Metrics

	mu      sync.Mutex
	wallets map[uuid.UUID]*walletEntry
}

func NewService(store db.WalletDBWrapper, queue mq.IntentMessageQueueWrapper) *Service {
	return &Service{
		db:      store,
		mq:      queue,
		metrics: NewMetrics(),
		wallets: make(map[uuid.UUID]*walletEntry),
	}
}

// PlannedIntent is a stored intent together with what it changes.
type PlannedIntent struct {
	Record  *db.IntentRecord `json:"-"`
	Intent  *intent.Intent   `json:"intent"`
	Status  db.IntentStatus  `json:"status"`
	Changes []diff.Change    `json:"changes"`
}

// entry returns the cached organizer of id, restoring it from storage on
// first use.
func (s *Service) entry(id uuid.UUID) (*walletEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.wallets[id]; ok {
		return e, nil
	}
	w, err := s.db.GetWallet(id)
	if err != nil {
		return nil, err
	}
	m, err := keys.ParseMnemonic(w.Phrase, "")
	if err != nil {
		return nil, fmt.Errorf("wallet %s: %w", id, err)
	}
	t, err := tray.Restore(m, w.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("restore wallet %s: %w", id, err)
	}
	e := &walletEntry{org: organizer.FromTray(t)}
	s.wallets[id] = e
	return e, nil
}

func (s *Service) forget(id uuid.UUID) {
	s.mu.Lock()
	delete(s.wallets, id)
	s.mu.Unlock()
}

func (s *Service) publish(walletID uuid.UUID, rec *db.IntentRecord, event mq.Event, quarks uint64) {
	s.metrics.observeEvent(rec.Kind, event.String())
	msg := mq.IntentMessage{
		WalletID: walletID,
		IntentID: rec.ID,
		Kind:     rec.Kind,
		Event:    event,
		Quarks:   quarks,
		Time:     time.Now().UTC(),
	}
	if err := mq.Publish(s.mq, msg); err != nil {
		log.Printf("Failed to publish %s event for intent %s: %v", event, rec.ID, err)
	}
}

func newRecord(walletID uuid.UUID, in *intent.Intent, status db.IntentStatus) (*db.IntentRecord, error) {
	actions, err := json.Marshal(in.Actions)
	if err != nil {
		return nil, fmt.Errorf("encode actions: %w", err)
	}
	metadata, err := json.Marshal(in.Metadata)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	return &db.IntentRecord{
		ID:        in.ID.String(),
		WalletID:  walletID,
		Kind:      in.Kind.String(),
		Status:    status,
		Actions:   actions,
		Metadata:  metadata,
		Result:    in.ResultTray.Snapshot(),
		CreatedAt: time.Now().UTC(),
	}, nil
}

// CreateWallet opens every account of a new wallet. Account creation is
// committed immediately.
func (s *Service) CreateWallet(ctx context.Context, owner string, m keys.Mnemonic) (*db.Wallet, *PlannedIntent, error) {
	org, err := organizer.New(m)
	if err != nil {
		return nil, nil, err
	}
	wallet := &db.Wallet{WalletInfo: db.WalletInfo{ID: uuid.New(), Owner: owner}}

	var rec *db.IntentRecord
	in, err := org.Submit(ctx, intent.CreateAccounts{}, func(ctx context.Context, in *intent.Intent) error {
		wallet.WalletData = db.WalletData{Phrase: m.Phrase(), Snapshot: in.ResultTray.Snapshot()}
		if err := s.db.CreateWallet(wallet); err != nil {
			return err
		}
		rec, err = newRecord(wallet.ID, in, db.IntentConfirmed)
		if err != nil {
			return err
		}
		return s.db.CreateIntent(rec)
	})
	if err != nil {
		s.metrics.observePlanError(intent.KindCreateAccounts.String())
		return nil, nil, err
	}

	s.mu.Lock()
	s.wallets[wallet.ID] = &walletEntry{org: org}
	s.mu.Unlock()

	s.metrics.observeActions(rec.Kind, in.Actions.Len())
	s.publish(wallet.ID, rec, mq.EventConfirmed, 0)
	return wallet, &PlannedIntent{Record: rec, Intent: in, Status: rec.Status}, nil
}

// Organizer returns the organizer of a stored wallet.
func (s *Service) Organizer(id uuid.UUID) (*organizer.Organizer, error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	return e.org, nil
}

// SetBalances overwrites balances of a wallet and persists the new tray.
func (s *Service) SetBalances(id uuid.UUID, balances map[tray.AccountType]kin.Kin) (*tray.Tray, error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	t := e.org.Tray()
	if err := t.SetBalances(balances); err != nil {
		return nil, err
	}
	if err := s.db.UpdateWalletSnapshot(id, t.Snapshot()); err != nil {
		return nil, err
	}
	e.org.Set(t)
	return t, nil
}

// PlanIntent plans req against the wallet's current tray and stores it as
// pending. With confirm set the intent is committed right away.
func (s *Service) PlanIntent(ctx context.Context, walletID uuid.UUID, req intent.Request, confirm bool) (*PlannedIntent, error) {
	e, err := s.entry(walletID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	before := e.org.Tray()
	status := db.IntentPending
	if confirm {
		status = db.IntentConfirmed
	}

	var rec *db.IntentRecord
	store := func(ctx context.Context, in *intent.Intent) error {
		rec, err = newRecord(walletID, in, status)
		if err != nil {
			return err
		}
		if confirm {
			return s.db.CommitIntent(rec)
		}
		return s.db.CreateIntent(rec)
	}

	var in *intent.Intent
	if confirm {
		in, err = e.org.Submit(ctx, req, store)
	} else {
		in, err = e.org.Plan(req)
		if err == nil {
			err = store(ctx, in)
		}
	}
	if err != nil {
		s.metrics.observePlanError(req.Kind().String())
		return nil, err
	}

	changes, err := diff.TrayChanges(before, in.ResultTray)
	if err != nil {
		return nil, err
	}

	quarks := requestQuarks(req)
	s.metrics.observeActions(rec.Kind, in.Actions.Len())
	s.publish(walletID, rec, mq.EventPlanned, quarks)
	if confirm {
		s.publish(walletID, rec, mq.EventConfirmed, quarks)
		s.dropPending(walletID, rec.ID)
	}
	return &PlannedIntent{Record: rec, Intent: in, Status: status, Changes: changes}, nil
}

// ConfirmIntent adopts the result tray of a pending intent. Every other
// pending intent of the wallet was planned against the replaced tray and is
// dropped.
func (s *Service) ConfirmIntent(ctx context.Context, id string) (*db.IntentRecord, error) {
	rec, err := s.db.GetIntent(id)
	if err != nil {
		return nil, err
	}
	e, err := s.entry(rec.WalletID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result, err := tray.Restore(e.org.Mnemonic(), rec.Result)
	if err != nil {
		return nil, fmt.Errorf("restore result of intent %s: %w", id, err)
	}
	rec, err = s.db.ConfirmIntent(id)
	if err != nil {
		return nil, err
	}
	e.org.Set(result)

	s.publish(rec.WalletID, rec, mq.EventConfirmed, 0)
	s.dropPending(rec.WalletID, rec.ID)
	return rec, nil
}

// CancelIntent drops a pending intent. The wallet's tray is untouched.
func (s *Service) CancelIntent(id string) (*db.IntentRecord, error) {
	rec, err := s.db.GetIntent(id)
	if err != nil {
		return nil, err
	}
	if err := s.db.UpdateIntentStatus(id, db.IntentPending, db.IntentDropped); err != nil {
		return nil, err
	}
	rec.Status = db.IntentDropped
	s.publish(rec.WalletID, rec, mq.EventDropped, 0)
	return rec, nil
}

// dropPending drops every pending intent of walletID except keep.
func (s *Service) dropPending(walletID uuid.UUID, keep string) {
	records, err := s.db.GetWalletIntents(walletID)
	if err != nil {
		log.Printf("Failed to list intents of wallet %s: %v", walletID, err)
		return
	}
	for i := range records {
		rec := &records[i]
		if rec.ID == keep || rec.Status != db.IntentPending {
			continue
		}
		err := s.db.UpdateIntentStatus(rec.ID, db.IntentPending, db.IntentDropped)
		if errors.Is(err, db.ErrStatusConflict) {
			continue
		}
		if err != nil {
			log.Printf("Failed to drop stale intent %s: %v", rec.ID, err)
			continue
		}
		rec.Status = db.IntentDropped
		s.publish(walletID, rec, mq.EventDropped, 0)
	}
}

// DeleteWallet removes a wallet and its intents.
func (s *Service) DeleteWallet(id uuid.UUID) error {
	if err := s.db.DeleteWallet(id); err != nil {
		return err
	}
	s.forget(id)
	return nil
}
