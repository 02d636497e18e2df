package service

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"strings"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/rs/zerolog/log"

	"gymku_backend/internals/configs"
)

// ChargeRequest data minimum untuk membuat sesi pembayaran.
type ChargeRequest struct {
	OrderID  string
	Amount   int64
	ItemName string
	Category string
	Customer Customer
}

type Customer struct {
	Name  string
	Email string
	Phone string
}

type ChargeResult struct {
	Token       string
	RedirectURL string
}

// Gateway payment gateway (Midtrans Snap di produksi, fake di test).
type Gateway interface {
	CreateCharge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
	// VerifySignature cek signature notifikasi webhook.
	VerifySignature(orderID, statusCode, grossAmount, signature string) bool
}

var ErrGatewayNotConfigured = errors.New("payment gateway belum dikonfigurasi")

type MidtransGateway struct {
	ServerKey string
	client    snap.Client
}

func NewMidtransGateway(cfg configs.MidtransConfig) *MidtransGateway {
	env := midtrans.Sandbox
	if cfg.UseProd {
		env = midtrans.Production
	}
	g := &MidtransGateway{ServerKey: cfg.ServerKey}
	if cfg.ServerKey == "" {
		log.Warn().Msg("⚠️ MIDTRANS_SERVER_KEY kosong, checkout akan gagal (502)")
		return g
	}
	g.client.New(cfg.ServerKey, env)
	return g
}

func (g *MidtransGateway) CreateCharge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if g.ServerKey == "" {
		return nil, ErrGatewayNotConfigured
	}
	sreq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.OrderID,
			GrossAmt: req.Amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.Customer.Name,
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:       req.OrderID,
			Price:    req.Amount,
			Qty:      1,
			Name:     truncate(req.ItemName, 50),
			Category: req.Category,
		}},
	}
	resp, err := g.client.CreateTransaction(sreq)
	if err != nil {
		return nil, err
	}
	return &ChargeResult{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

// VerifySignature sha512(order_id + status_code + gross_amount + server_key).
func (g *MidtransGateway) VerifySignature(orderID, statusCode, grossAmount, signature string) bool {
	if g.ServerKey == "" || signature == "" {
		return false
	}
	return strings.EqualFold(MidtransSignature(orderID, statusCode, grossAmount, g.ServerKey), signature)
}

func MidtransSignature(orderID, statusCode, grossAmount, serverKey string) string {
	h := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(h[:])
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
