/*
Package pond implements Pond contract which keeps per-account reputation
scores and badges issued for them.

Every account has a score in each of the fixed categories (DeFi, Governance,
Social). Scores are changed by the committee: boosted in one or several
categories at once or decayed uniformly. Scores never go below zero, every
mutation is clamped instead of being rejected.

Badges are described by a catalog installed on deployment. A badge is backed
by one category and can be minted once the account score in that category
reaches the badge threshold. Badges are never minted implicitly, but they are
revoked as soon as a mutation drops the backing score below the threshold.

# Contract notifications

ReputationChanged notification. This notification is produced for every
category touched by UpdateReputation, MultiBoostReputation and
DecayReputation. Delta is the effective change of the score after clamping.

	ReputationChanged:
	  - name: account
	    type: Hash160
	  - name: category
	    type: Integer
	  - name: newScore
	    type: Integer
	  - name: delta
	    type: Integer

BadgeMinted notification. This notification is produced when a badge is
granted with MintBadge.

	BadgeMinted:
	  - name: account
	    type: Hash160
	  - name: badgeID
	    type: Integer

BadgeRevoked notification. This notification is produced when a score
mutation leaves a held badge without the required score.

	BadgeRevoked:
	  - name: account
	    type: Hash160
	  - name: badgeID
	    type: Integer

BadgeEligible notification. This notification is produced when a score
mutation makes a badge mintable that was not mintable before it.

	BadgeEligible:
	  - name: account
	    type: Hash160
	  - name: badgeID
	    type: Integer
*/
package pond

/*
Contract storage model.

Current conventions:
 <account>: 20-byte script hash of the account

# Summary
Key-value storage format:
 - 'c' -> std.Serialize([]Badge)
   badge catalog installed on deployment
 - 's<account>' -> std.Serialize([]int)
   reputation scores of the account indexed by category
 - 'b<account>' -> std.Serialize([]int)
   identifiers of badges held by the account in mint order
 - 'a<account>' -> int
   marker of accounts having any scores or badges

# Catalog
Catalog can be passed as deploy data: an array of (id, category, threshold,
name, description) arrays. Default catalog is installed when no data is given.
*/
