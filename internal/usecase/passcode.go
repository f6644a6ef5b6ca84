package usecase

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/riskibarqy/darts-tournament/internal/domain/tournament"
)

// PasscodeGenerator issues score-submission passcodes.
type PasscodeGenerator interface {
	NewPasscode() (string, error)
}

type DigitPasscodeGenerator struct{}

func NewDigitPasscodeGenerator() DigitPasscodeGenerator {
	return DigitPasscodeGenerator{}
}

// NewPasscode returns tournament.PasscodeLength random decimal digits.
func (DigitPasscodeGenerator) NewPasscode() (string, error) {
	var sb strings.Builder
	sb.Grow(tournament.PasscodeLength)
	ten := big.NewInt(10)
	for range tournament.PasscodeLength {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("read random digit: %w", err)
		}
		sb.WriteByte(byte('0' + d.Int64()))
	}
	return sb.String(), nil
}
