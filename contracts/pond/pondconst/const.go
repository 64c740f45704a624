package pondconst

// Reputation categories. The set is closed: any other value is rejected by
// the contract.
const (
	CategoryDeFi = iota
	CategoryGovernance
	CategorySocial

	// CategoryCount is the number of reputation categories.
	CategoryCount
)

// Notification names produced by the Pond contract.
const (
	// ReputationChangedEvent is emitted for every category touched by a score
	// mutation.
	ReputationChangedEvent = "ReputationChanged"
	// BadgeMintedEvent is emitted when a badge is granted to an account.
	BadgeMintedEvent = "BadgeMinted"
	// BadgeRevokedEvent is emitted when a held badge loses its backing score.
	BadgeRevokedEvent = "BadgeRevoked"
	// BadgeEligibleEvent is emitted when a badge becomes mintable for an account.
	BadgeEligibleEvent = "BadgeEligible"
)

// Exception messages thrown by the Pond contract.
const (
	ErrInvalidCategory = "invalid category"
	ErrLengthMismatch  = "categories and amounts length mismatch"
	ErrUnknownBadge    = "unknown badge"
	ErrNotEligible     = "not eligible for badge"
	ErrAlreadyMinted   = "badge already minted"
	ErrInvalidAmount   = "negative decay amount"
	ErrInvalidAccount  = "invalid account"
	ErrInvalidCatalog  = "invalid badge catalog"
)

// Storage layout of the Pond contract. Per-account keys are the prefix
// followed by the account script hash.
const (
	// CatalogKey stores serialized badge catalog.
	CatalogKey = 'c'
	// ScoresPrefix stores serialized score vector of the account.
	ScoresPrefix = 's'
	// BadgesPrefix stores serialized IDs of badges held by the account.
	BadgesPrefix = 'b'
	// AccountsPrefix marks accounts that have any record.
	AccountsPrefix = 'a'
)
