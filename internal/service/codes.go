package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	codeCharset    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	giftCodeLen    = 8
	taskCodeDigits = "0123456789"
	taskCodeAlpha  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

func randomFrom(charset string, n int) (string, error) {
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", fmt.Errorf("random int: %w", err)
		}
		out[i] = charset[idx.Int64()]
	}
	return string(out), nil
}

func generateGiftCode() (string, error) {
	return randomFrom(codeCharset, giftCodeLen)
}

// generateTaskCode builds a short public code like TSK42AB.
func generateTaskCode() (string, error) {
	digits, err := randomFrom(taskCodeDigits, 2)
	if err != nil {
		return "", err
	}
	alpha, err := randomFrom(taskCodeAlpha, 2)
	if err != nil {
		return "", err
	}
	return "TSK" + digits + alpha, nil
}
