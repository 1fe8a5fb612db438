package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sbilibin2017/gw-currency-bot/internal/models"
)

const swapPrefix = "swap"

// MaxActionData is the largest button payload Telegram accepts, in bytes.
const MaxActionData = 64

// ErrMalformedAction means inline button data could not be decoded.
var ErrMalformedAction = errors.New("malformed action data")

// Swap is a conversion request carried in the data of a swap button.
type Swap struct {
	Provider models.Provider
	Amount   float64
	From     string
	To       string
}

// EncodeSwap builds button data for converting amount of from into to,
// e.g. "swap|monobank|100|UAH|USD". The amount is written in its shortest
// exact form, switching to an exponent for very large or small values, so
// data for the supported currencies stays within MaxActionData.
func EncodeSwap(p models.Provider, amount float64, from, to string) string {
	return strings.Join([]string{
		swapPrefix,
		p.String(),
		strconv.FormatFloat(amount, 'g', -1, 64),
		from,
		to,
	}, "|")
}

// DecodeSwap parses data produced by EncodeSwap.
func DecodeSwap(data string) (Swap, error) {
	parts := strings.Split(data, "|")
	if len(parts) != 5 || parts[0] != swapPrefix {
		return Swap{}, fmt.Errorf("%w: %q", ErrMalformedAction, data)
	}

	p, ok := models.ParseProvider(parts[1])
	if !ok {
		return Swap{}, fmt.Errorf("%w: %w: %q", ErrMalformedAction, ErrUnknownProvider, parts[1])
	}
	amount, err := parseAmount(parts[2])
	if err != nil {
		return Swap{}, fmt.Errorf("%w: %w", ErrMalformedAction, err)
	}
	from, err := parseCurrency(parts[3])
	if err != nil {
		return Swap{}, fmt.Errorf("%w: %w", ErrMalformedAction, err)
	}
	to, err := parseCurrency(parts[4])
	if err != nil {
		return Swap{}, fmt.Errorf("%w: %w", ErrMalformedAction, err)
	}

	return Swap{Provider: p, Amount: amount, From: from, To: to}, nil
}
