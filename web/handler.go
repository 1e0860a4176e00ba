package web

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"codepay/db/db"
	"codepay/intent"
	"codepay/keys"
	"codepay/tray"
)

type accountView struct {
	Type   tray.AccountType `json:"type"`
	Vault  keys.PublicKey   `json:"vault"`
	Quarks uint64           `json:"quarks"`
}

type walletView struct {
	ID        uuid.UUID     `json:"id"`
	Owner     string        `json:"owner"`
	Available uint64        `json:"available"`
	Accounts  []accountView `json:"accounts,omitempty"`
}

type intentView struct {
	ID       string          `json:"id"`
	Kind     string          `json:"kind"`
	Status   db.IntentStatus `json:"status"`
	Actions  any             `json:"actions"`
	Metadata any             `json:"metadata"`
}

func toIntentView(r db.IntentRecord) intentView {
	return intentView{ID: r.ID, Kind: r.Kind, Status: r.Status, Actions: r.Actions, Metadata: r.Metadata}
}

func accountsOf(t *tray.Tray) []accountView {
	all := t.AllAccounts()
	views := make([]accountView, 0, len(all))
	for _, a := range all {
		views = append(views, accountView{
			Type:   a.Type,
			Vault:  a.Cluster.VaultPublicKey(),
			Quarks: t.PartialBalance(a.Type).Quarks(),
		})
	}
	return views
}

// abortWithError maps storage and planning errors to status codes.
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var planErr intent.Error
	var trayErr tray.Error
	switch {
	case errors.Is(err, db.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, db.ErrAlreadyExists), errors.Is(err, db.ErrStatusConflict):
		status = http.StatusConflict
	case errors.As(err, &planErr), errors.As(err, &trayErr):
		status = http.StatusUnprocessableEntity
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func walletID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, err)
		return uuid.Nil, false
	}
	return id, true
}

func (s *Service) handleCreateWallet(c *gin.Context) {
	var body CreateWalletRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	if !VerifyStringRequest(body.Owner) {
		badRequest(c, errors.New("invalid owner"))
		return
	}

	var (
		m   keys.Mnemonic
		err error
	)
	if body.Mnemonic != "" {
		m, err = keys.ParseMnemonic(body.Mnemonic, "")
	} else {
		m, err = keys.NewMnemonic()
	}
	if err != nil {
		badRequest(c, err)
		return
	}

	wallet, planned, err := s.CreateWallet(c.Request.Context(), body.Owner, m)
	if err != nil {
		abortWithError(c, err)
		return
	}
	org, err := s.Organizer(wallet.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"wallet":   walletView{ID: wallet.ID, Owner: wallet.Owner, Accounts: accountsOf(org.Tray())},
		"mnemonic": m.Phrase(),
		"intent":   planned,
	})
}

// handleListWallets serves GET /wallets?ids=a,b through the request's data
// loader.
func (s *Service) handleListWallets(c *gin.Context) {
	loader, ok := c.MustGet(string(db.DataLoaderKeyWalletData)).(*db.WalletDataLoader)
	if !ok {
		abortWithError(c, errors.New("data loader is not available"))
		return
	}
	raw := strings.Split(c.Query("ids"), ",")
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		if r = strings.TrimSpace(r); r == "" {
			continue
		}
		id, err := uuid.Parse(r)
		if err != nil {
			badRequest(c, err)
			return
		}
		ids = append(ids, id)
	}

	ctx := c.Request.Context()
	// Unknown ids come back as nil entries with an error per key.
	infos, err := loader.GetWalletInfoList.LoadAll(ctx, ids)
	if err != nil {
		log.Printf("Wallet lookup incomplete: %v", err)
	}
	intents, _ := loader.GetWalletIntentList.LoadAll(ctx, ids)

	views := make([]gin.H, 0, len(ids))
	for i, info := range infos {
		if info == nil {
			continue
		}
		pending := 0
		if i < len(intents) {
			for _, r := range intents[i] {
				if r.Status == db.IntentPending {
					pending++
				}
			}
		}
		views = append(views, gin.H{"id": info.ID, "owner": info.Owner, "pendingIntents": pending})
	}
	c.JSON(http.StatusOK, gin.H{"wallets": views})
}

func (s *Service) handleGetWallet(c *gin.Context) {
	id, ok := walletID(c)
	if !ok {
		return
	}
	info, err := s.db.GetWalletInfo(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	org, err := s.Organizer(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	records, err := s.db.GetWalletIntents(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	intents := make([]intentView, 0, len(records))
	for _, r := range records {
		intents = append(intents, toIntentView(r))
	}
	c.JSON(http.StatusOK, gin.H{
		"wallet": walletView{
			ID:        info.ID,
			Owner:     info.Owner,
			Available: org.AvailableBalance().Quarks(),
			Accounts:  accountsOf(org.Tray()),
		},
		"intents": intents,
	})
}

func (s *Service) handleDeleteWallet(c *gin.Context) {
	id, ok := walletID(c)
	if !ok {
		return
	}
	if err := s.DeleteWallet(id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Service) handleSetBalances(c *gin.Context) {
	id, ok := walletID(c)
	if !ok {
		return
	}
	var body map[string]uint64
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	balances, err := ParseBalances(body)
	if err != nil {
		badRequest(c, err)
		return
	}
	t, err := s.SetBalances(id, balances)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accountsOf(t), "available": t.AvailableBalance().Quarks()})
}

func (s *Service) handlePlanIntent(c *gin.Context) {
	id, ok := walletID(c)
	if !ok {
		return
	}
	var body IntentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	req, err := body.ToRequest()
	if err != nil {
		badRequest(c, err)
		return
	}
	planned, err := s.PlanIntent(c.Request.Context(), id, req, body.Confirm)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, planned)
}

func (s *Service) handleGetIntent(c *gin.Context) {
	rec, err := s.db.GetIntent(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toIntentView(*rec))
}

func (s *Service) handleConfirmIntent(c *gin.Context) {
	rec, err := s.ConfirmIntent(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toIntentView(*rec))
}

func (s *Service) handleCancelIntent(c *gin.Context) {
	rec, err := s.CancelIntent(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toIntentView(*rec))
}
