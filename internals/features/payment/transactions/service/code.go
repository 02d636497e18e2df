package service

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"time"

	"gymku_backend/internals/features/payment/transactions/model"
)

const (
	codeAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeSuffixLen   = 4
	maxCodeAttempts = 5
)

// codeRand sumber acak suffix; diganti di test untuk memaksa kode bentrok.
var codeRand io.Reader = rand.Reader

// NewTransactionCode <PREFIX>-YYYYMMDD-U<user id>-XXXX, tanggal di zona loc.
// Contoh: MP-20250115-U7-K3QZ
func NewTransactionCode(t model.PurchasableType, userID uint, now time.Time, loc *time.Location) (string, error) {
	if loc == nil {
		loc = time.UTC
	}
	suffix, err := randomSuffix(codeSuffixLen)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-U%d-%s", t.CodePrefix(), now.In(loc).Format("20060102"), userID, suffix), nil
}

func randomSuffix(n int) (string, error) {
	out := make([]byte, n)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range out {
		k, err := rand.Int(codeRand, max)
		if err != nil {
			return "", fmt.Errorf("random code: %w", err)
		}
		out[i] = codeAlphabet[k.Int64()]
	}
	return string(out), nil
}
