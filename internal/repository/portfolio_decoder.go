package repository

import (
	"encoding/json"
	"errors"
	"fmt"

	"StockPull/internal/domain/models"

	"github.com/go-playground/validator/v10"
)

// Decoder turns a raw portfolio payload into holdings.
type Decoder interface {
	Decode(data []byte) ([]models.Holding, error)
}

// PortfolioDecoder decodes the {"data":{"user_holding":[...]}} envelope.
// A single invalid record fails the whole payload.
type PortfolioDecoder struct {
	validate *validator.Validate
}

// NewPortfolioDecoder creates a decoder.
func NewPortfolioDecoder() *PortfolioDecoder {
	return &PortfolioDecoder{validate: validator.New()}
}

// Decode returns the holdings or a decoding AppError.
func (d *PortfolioDecoder) Decode(data []byte) ([]models.Holding, error) {
	var env models.PortfolioEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, models.DecodingError(fmt.Errorf("parse portfolio: %w", err))
	}

	if err := d.validate.Struct(&env); err != nil {
		return nil, models.DecodingError(describeValidation(err))
	}

	holdings := make([]models.Holding, len(env.Data.UserHolding))
	for i, rec := range env.Data.UserHolding {
		holdings[i] = rec.Holding()
	}
	return holdings, nil
}

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		// Namespace reads like PortfolioEnvelope.Data.UserHolding[1].AvgPrice
		return fmt.Errorf("missing required field %s: %w", verrs[0].Namespace(), err)
	}
	return fmt.Errorf("validate portfolio: %w", err)
}
