package pond

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pondrep/pond-contract/contracts/pond/pondconst"
)

const (
	// CategoryDeFi is an index of DeFi reputation category.
	CategoryDeFi = pondconst.CategoryDeFi
	// CategoryGovernance is an index of Governance reputation category.
	CategoryGovernance = pondconst.CategoryGovernance
	// CategorySocial is an index of Social reputation category.
	CategorySocial = pondconst.CategorySocial
	// CategoryCount is the number of reputation categories.
	CategoryCount = pondconst.CategoryCount
)

// Errors matching contract exceptions, see ErrorFromException.
var (
	ErrInvalidCategory = errors.New(pondconst.ErrInvalidCategory)
	ErrLengthMismatch  = errors.New(pondconst.ErrLengthMismatch)
	ErrUnknownBadge    = errors.New(pondconst.ErrUnknownBadge)
	ErrNotEligible     = errors.New(pondconst.ErrNotEligible)
	ErrAlreadyMinted   = errors.New(pondconst.ErrAlreadyMinted)
	ErrInvalidAmount   = errors.New(pondconst.ErrInvalidAmount)
	ErrInvalidAccount  = errors.New(pondconst.ErrInvalidAccount)
	ErrInvalidCatalog  = errors.New(pondconst.ErrInvalidCatalog)
)

// Catalog errors wrap the category one, so they go first.
var exceptionErrors = []error{
	ErrInvalidCatalog,
	ErrInvalidCategory,
	ErrLengthMismatch,
	ErrUnknownBadge,
	ErrNotEligible,
	ErrAlreadyMinted,
	ErrInvalidAmount,
	ErrInvalidAccount,
}

// ErrorFromException converts FAULT exception of the Pond contract call into
// an error. Known contract failures are wrapped into corresponding Err*
// values and can be checked with errors.Is. Empty exception results in nil.
func ErrorFromException(exception string) error {
	if exception == "" {
		return nil
	}

	for _, err := range exceptionErrors {
		if strings.Contains(exception, err.Error()) {
			return fmt.Errorf("%w: %s", err, exception)
		}
	}

	return errors.New(exception)
}
