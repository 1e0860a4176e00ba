package web

import (
	"encoding/hex"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"codepay/kin"
	"codepay/payload"
)

type EncodePayloadRequest struct {
	Kind     string `json:"kind" binding:"required"`
	Quarks   uint64 `json:"quarks"`
	Currency string `json:"currency"`
	Amount   string `json:"amount"`
	Nonce    string `json:"nonce"`
}

type DecodePayloadRequest struct {
	Data string `json:"data" binding:"required"`
}

// ToPayload builds the payload described by r. A missing nonce is generated.
func (r EncodePayloadRequest) ToPayload() (payload.Payload, error) {
	kind, err := payload.ParseKind(r.Kind)
	if err != nil {
		return payload.Payload{}, err
	}
	var nonce payload.Nonce
	if r.Nonce != "" {
		nonce, err = payload.ParseNonce(r.Nonce)
	} else {
		nonce, err = payload.NewNonce()
	}
	if err != nil {
		return payload.Payload{}, err
	}

	switch kind {
	case payload.KindCash:
		return payload.NewCash(kin.FromQuarks(r.Quarks), nonce), nil
	case payload.KindGiftCard:
		return payload.NewGiftCard(kin.FromQuarks(r.Quarks), nonce), nil
	}
	currency, err := kin.ParseCurrency(r.Currency)
	if err != nil {
		return payload.Payload{}, err
	}
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return payload.Payload{}, errors.New("invalid fiat amount")
	}
	return payload.NewRequestPayment(payload.Fiat{Currency: currency, Amount: amount}, nonce), nil
}

func payloadResponse(c *gin.Context, p payload.Payload, encoded []byte) {
	rendezvous, err := p.Rendezvous()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":       hex.EncodeToString(encoded),
		"payload":    p,
		"rendezvous": rendezvous.Public,
	})
}

func handleEncodePayload(c *gin.Context) {
	var body EncodePayloadRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	p, err := body.ToPayload()
	if err != nil {
		badRequest(c, err)
		return
	}
	encoded, err := p.Encode()
	if err != nil {
		badRequest(c, err)
		return
	}
	payloadResponse(c, p, encoded)
}

func handleDecodePayload(c *gin.Context) {
	var body DecodePayloadRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	data, err := hex.DecodeString(body.Data)
	if err != nil {
		badRequest(c, err)
		return
	}
	p, err := payload.Decode(data)
	if err != nil {
		badRequest(c, err)
		return
	}
	payloadResponse(c, p, data)
}
