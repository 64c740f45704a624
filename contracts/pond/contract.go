package pond

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/pondrep/pond-contract/common"
	"github.com/pondrep/pond-contract/contracts/pond/pondconst"
)

type (
	// Badge is an entry of the badge catalog installed on deployment.
	Badge struct {
		ID int
		// Category whose score backs the badge.
		Category int
		// Minimal score required to mint the badge.
		Threshold int
		Name        string
		Description string
	}

	// Eligibility groups badges whose eligibility differs from ownership.
	Eligibility struct {
		// Badges not held by the account but reachable with current scores.
		Eligible []int
		// Badges held by the account but no longer backed by its scores.
		Lost []int
	}
)

// nolint:unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()

	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	var badges []Badge
	if data == nil {
		badges = defaultCatalog()
	} else {
		badges = parseCatalog(data.([]any))
	}

	common.SetSerialized(ctx, []byte{pondconst.CatalogKey}, badges)

	runtime.Log("pond contract initialized")
}

func defaultCatalog() []Badge {
	return []Badge{
		Badge{ID: 1, Category: pondconst.CategoryDeFi, Threshold: 25, Name: "DeFi Pioneer", Description: "Achieved 25 reputation in DeFi"},
		Badge{ID: 2, Category: pondconst.CategoryGovernance, Threshold: 25, Name: "Governance Voter", Description: "Achieved 25 reputation in Governance"},
		Badge{ID: 3, Category: pondconst.CategorySocial, Threshold: 25, Name: "Social Contributor", Description: "Achieved 25 reputation in Social"},
		Badge{ID: 4, Category: pondconst.CategoryDeFi, Threshold: 50, Name: "DeFi Expert", Description: "Achieved 50 reputation in DeFi"},
		Badge{ID: 5, Category: pondconst.CategoryGovernance, Threshold: 50, Name: "Governance Leader", Description: "Achieved 50 reputation in Governance"},
		Badge{ID: 6, Category: pondconst.CategorySocial, Threshold: 50, Name: "Community Builder", Description: "Achieved 50 reputation in Social"},
		Badge{ID: 7, Category: pondconst.CategoryDeFi, Threshold: 100, Name: "DeFi Veteran", Description: "Achieved 100 reputation in DeFi"},
		Badge{ID: 8, Category: pondconst.CategoryGovernance, Threshold: 100, Name: "Governance Steward", Description: "Achieved 100 reputation in Governance"},
		Badge{ID: 9, Category: pondconst.CategorySocial, Threshold: 100, Name: "Social Champion", Description: "Achieved 100 reputation in Social"},
	}
}

// parseCatalog converts deploy data into the badge catalog. Every entry is
// an array of (id, category, threshold, name, description).
func parseCatalog(entries []any) []Badge {
	if len(entries) == 0 {
		panic(pondconst.ErrInvalidCatalog + ": no badges")
	}

	badges := []Badge{}
	for i := range entries {
		fields := entries[i].([]any)
		if len(fields) != 5 {
			panic(pondconst.ErrInvalidCatalog + ": badge must have 5 fields")
		}

		b := Badge{
			ID:          fields[0].(int),
			Category:    fields[1].(int),
			Threshold:   fields[2].(int),
			Name:        fields[3].(string),
			Description: fields[4].(string),
		}

		if b.ID <= 0 {
			panic(pondconst.ErrInvalidCatalog + ": non-positive badge id")
		}
		if !isValidCategory(b.Category) {
			panic(pondconst.ErrInvalidCatalog + ": " + pondconst.ErrInvalidCategory)
		}
		if b.Threshold < 0 {
			panic(pondconst.ErrInvalidCatalog + ": negative threshold")
		}
		if len(b.Name) == 0 {
			panic(pondconst.ErrInvalidCatalog + ": empty badge name")
		}
		if badgeIndex(badges, b.ID) >= 0 {
			panic(pondconst.ErrInvalidCatalog + ": duplicate badge " + std.Itoa10(b.ID))
		}

		badges = append(badges, b)
	}

	return badges
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("pond contract updated")
}

// GetReputation returns reputation scores of the account indexed by category.
// Unknown accounts have zero scores.
func GetReputation(account interop.Hash160) []int {
	ctx := storage.GetReadOnlyContext()

	checkAccount(account)

	return getScores(ctx, account)
}

// GetRepInCategory returns reputation score of the account in the specified
// category.
func GetRepInCategory(account interop.Hash160, category int) int {
	ctx := storage.GetReadOnlyContext()

	checkAccount(account)
	checkCategory(category)

	scores := getScores(ctx, account)

	return scores[category]
}

// UpdateReputation adds amount to the account score in the specified category.
// Amount may be negative, the resulting score never goes below zero. It can be
// invoked only by committee.
//
// It produces ReputationChanged notification and, if eligibility of any
// badge changes, BadgeRevoked and BadgeEligible notifications.
func UpdateReputation(account interop.Hash160, category int, amount int) {
	ctx := storage.GetContext()

	common.CheckCommitteeWitness()
	checkAccount(account)
	checkCategory(category)

	before := getScores(ctx, account)
	after := cloneScores(before)

	boost(account, after, category, amount)

	putScores(ctx, account, after)
	settle(ctx, account, before, after)
}

// MultiBoostReputation applies UpdateReputation pairwise to categories and
// amounts. All categories are validated before any score changes, so the call
// either applies every pair or none of them. It can be invoked only by
// committee.
func MultiBoostReputation(account interop.Hash160, categories []int, amounts []int) {
	ctx := storage.GetContext()

	common.CheckCommitteeWitness()
	checkAccount(account)

	if len(categories) != len(amounts) {
		panic(pondconst.ErrLengthMismatch)
	}

	for i := range categories {
		checkCategory(categories[i])
	}

	before := getScores(ctx, account)
	after := cloneScores(before)

	for i := range categories {
		boost(account, after, categories[i], amounts[i])
	}

	putScores(ctx, account, after)
	settle(ctx, account, before, after)
}

// DecayReputation subtracts amount from every category score of the account,
// clamping each of them at zero. Badges that are no longer backed by the
// scores are revoked. It can be invoked only by committee.
//
// It produces ReputationChanged notification for every category and
// BadgeRevoked notification for every revoked badge.
func DecayReputation(account interop.Hash160, amount int) {
	ctx := storage.GetContext()

	common.CheckCommitteeWitness()
	checkAccount(account)

	if amount < 0 {
		panic(pondconst.ErrInvalidAmount)
	}

	before := getScores(ctx, account)
	after := cloneScores(before)

	for c := 0; c < pondconst.CategoryCount; c++ {
		boost(account, after, c, -amount)
	}

	putScores(ctx, account, after)
	settle(ctx, account, before, after)
}

// IsReadyForBadge checks whether the account score reaches the threshold of
// the specified badge.
func IsReadyForBadge(account interop.Hash160, badgeID int) bool {
	ctx := storage.GetReadOnlyContext()

	checkAccount(account)

	b := getBadge(getCatalog(ctx), badgeID)

	return isEligible(getScores(ctx, account), b)
}

// MintBadge grants the badge to the account. It can be invoked by the account
// owner or by committee.
//
// It produces BadgeMinted notification.
func MintBadge(account interop.Hash160, badgeID int) {
	ctx := storage.GetContext()

	checkAccount(account)
	common.CheckOwnerOrCommitteeWitness(account)

	b := getBadge(getCatalog(ctx), badgeID)

	held := getHeld(ctx, account)
	if contains(held, badgeID) {
		panic(pondconst.ErrAlreadyMinted)
	}

	if !isEligible(getScores(ctx, account), b) {
		panic(pondconst.ErrNotEligible)
	}

	held = append(held, badgeID)
	common.SetSerialized(ctx, append([]byte{pondconst.BadgesPrefix}, account...), held)
	storage.Put(ctx, append([]byte{pondconst.AccountsPrefix}, account...), 1)

	runtime.Notify(pondconst.BadgeMintedEvent, account, badgeID)
}

// GetBadges returns identifiers of badges held by the account in mint order.
func GetBadges(account interop.Hash160) []int {
	ctx := storage.GetReadOnlyContext()

	checkAccount(account)

	return getHeld(ctx, account)
}

// EligibilityChanges returns badges the account can mint now and badges it
// holds without the required score.
func EligibilityChanges(account interop.Hash160) Eligibility {
	ctx := storage.GetReadOnlyContext()

	checkAccount(account)

	return diff(getCatalog(ctx), getScores(ctx, account), getHeld(ctx, account))
}

// Catalog returns badge catalog installed on deployment.
func Catalog() []Badge {
	ctx := storage.GetReadOnlyContext()
	return getCatalog(ctx)
}

// CategoryName returns human-readable name of the category.
func CategoryName(category int) string {
	switch category {
	case pondconst.CategoryDeFi:
		return "DeFi"
	case pondconst.CategoryGovernance:
		return "Governance"
	case pondconst.CategorySocial:
		return "Social"
	default:
		panic(pondconst.ErrInvalidCategory)
	}
}

// ListAccounts returns iterator over script hashes of accounts that have ever
// been assigned a score or a badge.
func ListAccounts() iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, []byte{pondconst.AccountsPrefix}, storage.KeysOnly|storage.RemovePrefix)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// boost changes the category score in place and announces the change.
func boost(account interop.Hash160, scores []int, category, amount int) {
	prev := scores[category]

	score := prev + amount
	if score < 0 {
		score = 0
	}

	scores[category] = score

	runtime.Notify(pondconst.ReputationChangedEvent, account, category, score, score-prev)
}

// settle revokes badges the new scores do not back and announces badges
// which became reachable with this mutation.
func settle(ctx storage.Context, account interop.Hash160, before, after []int) {
	catalog := getCatalog(ctx)
	held := getHeld(ctx, account)
	changes := diff(catalog, after, held)

	if len(changes.Lost) != 0 {
		kept := []int{}
		for _, id := range held {
			if !contains(changes.Lost, id) {
				kept = append(kept, id)
			}
		}

		common.SetSerialized(ctx, append([]byte{pondconst.BadgesPrefix}, account...), kept)

		for _, id := range changes.Lost {
			runtime.Notify(pondconst.BadgeRevokedEvent, account, id)
		}
	}

	for _, id := range changes.Eligible {
		if !isEligible(before, getBadge(catalog, id)) {
			runtime.Notify(pondconst.BadgeEligibleEvent, account, id)
		}
	}
}

func diff(catalog []Badge, scores []int, held []int) Eligibility {
	res := Eligibility{
		Eligible: []int{},
		Lost:     []int{},
	}

	for _, b := range catalog {
		eligible := isEligible(scores, b)
		has := contains(held, b.ID)

		if eligible && !has {
			res.Eligible = append(res.Eligible, b.ID)
		} else if !eligible && has {
			res.Lost = append(res.Lost, b.ID)
		}
	}

	return res
}

func isEligible(scores []int, b Badge) bool {
	return scores[b.Category] >= b.Threshold
}

func getCatalog(ctx storage.Context) []Badge {
	data := storage.Get(ctx, []byte{pondconst.CatalogKey})
	if data == nil {
		return []Badge{}
	}

	return std.Deserialize(data.([]byte)).([]Badge)
}

// getBadge returns catalog entry by id. It panics if there is no such badge.
func getBadge(catalog []Badge, id int) Badge {
	i := badgeIndex(catalog, id)
	if i < 0 {
		panic(pondconst.ErrUnknownBadge)
	}

	return catalog[i]
}

func badgeIndex(catalog []Badge, id int) int {
	for i := range catalog {
		if catalog[i].ID == id {
			return i
		}
	}

	return -1
}

func getScores(ctx storage.Context, account interop.Hash160) []int {
	scores := common.GetIntList(ctx, append([]byte{pondconst.ScoresPrefix}, account...))
	for len(scores) < pondconst.CategoryCount {
		scores = append(scores, 0)
	}

	return scores
}

func putScores(ctx storage.Context, account interop.Hash160, scores []int) {
	common.SetSerialized(ctx, append([]byte{pondconst.ScoresPrefix}, account...), scores)
	storage.Put(ctx, append([]byte{pondconst.AccountsPrefix}, account...), 1)
}

func cloneScores(scores []int) []int {
	res := []int{}
	for _, s := range scores {
		res = append(res, s)
	}

	return res
}

func getHeld(ctx storage.Context, account interop.Hash160) []int {
	return common.GetIntList(ctx, append([]byte{pondconst.BadgesPrefix}, account...))
}

func contains(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}

	return false
}

func isValidCategory(category int) bool {
	return category >= 0 && category < pondconst.CategoryCount
}

func checkCategory(category int) {
	if !isValidCategory(category) {
		panic(pondconst.ErrInvalidCategory)
	}
}

func checkAccount(account interop.Hash160) {
	if account == nil || len(account) != interop.Hash160Len {
		panic(pondconst.ErrInvalidAccount)
	}
}
