package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/pondrep/pond-contract/catalog"
	"github.com/pondrep/pond-contract/rpc/pond"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// withReader runs f against deployed Pond contract.
func (a *app) withReader(cmd *cobra.Command, f func(*remoteBlockchain, *pond.ContractReader) error) error {
	b, err := a.dialPond(cmd.Context())
	if err != nil {
		return err
	}
	defer b.close()

	return f(b, b.reader())
}

// send signs transaction built by f with the configured account, waits for
// it and prints Pond notifications it produced.
func (a *app) send(cmd *cobra.Command, f func(*pond.Contract) (util.Uint256, uint32, error)) error {
	acc, err := a.openAccount()
	if err != nil {
		return err
	}

	b, err := a.dialPond(cmd.Context())
	if err != nil {
		return err
	}
	defer b.close()

	c, act, err := b.writer(acc)
	if err != nil {
		return err
	}

	h, vub, err := f(c)
	if err != nil {
		return pond.ErrorFromException(err.Error())
	}

	a.log.Debug("transaction sent", zap.Stringer("hash", h), zap.Uint32("vub", vub))

	log, err := await(act, h, vub, nil)
	if err != nil {
		return err
	}

	a.log.Info("transaction accepted", zap.Stringer("hash", h))

	return printFeed(cmd.OutOrStdout(), b.contract, log)
}

func newReputationCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reputation <account>",
		Short: "Print reputation scores of the account in all categories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := parseAccount(args[0])
			if err != nil {
				return err
			}

			return a.withReader(cmd, func(_ *remoteBlockchain, r *pond.ContractReader) error {
				scores, err := r.GetReputation(acc)
				if err != nil {
					return pond.ErrorFromException(err.Error())
				}

				for i := range scores {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", catalog.Category(i), scores[i])
				}
				return nil
			})
		},
	}
}

func newScoreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "score <account> <category>",
		Short: "Print reputation score of the account in the category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := parseAccount(args[0])
			if err != nil {
				return err
			}

			category, err := parseCategory(args[1])
			if err != nil {
				return err
			}

			return a.withReader(cmd, func(_ *remoteBlockchain, r *pond.ContractReader) error {
				score, err := r.GetRepInCategory(acc, category)
				if err != nil {
					return pond.ErrorFromException(err.Error())
				}

				fmt.Fprintln(cmd.OutOrStdout(), score)
				return nil
			})
		},
	}
}

func newBadgesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "badges <account>",
		Short: "Print badges held by the account in mint order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := parseAccount(args[0])
			if err != nil {
				return err
			}

			return a.withReader(cmd, func(_ *remoteBlockchain, r *pond.ContractReader) error {
				ids, err := r.GetBadges(acc)
				if err != nil {
					return pond.ErrorFromException(err.Error())
				}

				badges, err := r.Catalog()
				if err != nil {
					return fmt.Errorf("read catalog: %w", err)
				}

				c := toCatalog(badges)
				for _, id := range ids {
					b, _ := c.Badge(int(id.Int64()))
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", id, b.Name)
				}
				return nil
			})
		},
	}
}

func newReadyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ready <account> <badge>",
		Short: "Check whether the account can mint the badge",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := parseAccount(args[0])
			if err != nil {
				return err
			}

			id, err := parseInt("badge", args[1])
			if err != nil {
				return err
			}

			return a.withReader(cmd, func(_ *remoteBlockchain, r *pond.ContractReader) error {
				ok, err := r.IsReadyForBadge(acc, id)
				if err != nil {
					return pond.ErrorFromException(err.Error())
				}

				fmt.Fprintln(cmd.OutOrStdout(), ok)
				return nil
			})
		},
	}
}

func newEligibilityCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "eligibility <account>",
		Short: "Print badges the account can mint and held badges it no longer qualifies for",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := parseAccount(args[0])
			if err != nil {
				return err
			}

			return a.withReader(cmd, func(_ *remoteBlockchain, r *pond.ContractReader) error {
				res, err := r.EligibilityChanges(acc)
				if err != nil {
					return pond.ErrorFromException(err.Error())
				}

				fmt.Fprintf(cmd.OutOrStdout(), "eligible: %s\nlost: %s\n", joinInts(res.Eligible), joinInts(res.Lost))
				return nil
			})
		},
	}
}

func newCatalogCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print installed badge catalog in YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withReader(cmd, func(_ *remoteBlockchain, r *pond.ContractReader) error {
				badges, err := r.Catalog()
				if err != nil {
					return err
				}

				data, err := toCatalog(badges).Marshal()
				if err != nil {
					return err
				}

				_, err = cmd.OutOrStdout().Write(data)
				return err
			})
		},
	}
}

func toCatalog(badges []*pond.PondBadge) *catalog.Catalog {
	c := &catalog.Catalog{Badges: make([]catalog.Badge, 0, len(badges))}
	for _, b := range badges {
		c.Badges = append(c.Badges, catalog.Badge{
			ID:          int(b.ID.Int64()),
			Category:    catalog.Category(b.Category.Int64()),
			Threshold:   int(b.Threshold.Int64()),
			Name:        b.Name,
			Description: b.Description,
		})
	}
	return c
}

func newAccountsCmd(a *app) *cobra.Command {
	var batch int

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List accounts having reputation record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if batch <= 0 {
				return fmt.Errorf("non-positive batch size %d", batch)
			}

			return a.withReader(cmd, func(b *remoteBlockchain, r *pond.ContractReader) error {
				sessionID, iter, err := r.ListAccounts()
				if err != nil {
					return err
				}

				return traverseAccounts(cmd.Context(), invoker.New(b.rpc, nil), sessionID, iter, batch, func(acc util.Uint160) {
					fmt.Fprintln(cmd.OutOrStdout(), address.Uint160ToString(acc))
				})
			})
		},
	}

	cmd.Flags().IntVar(&batch, "batch", 100, "Number of accounts requested at once")

	return cmd
}

// iteratorTraverser is a part of invoker.Invoker used for session iterators.
type iteratorTraverser interface {
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
	TerminateSession(sessionID uuid.UUID) error
}

// traverseAccounts passes all accounts of the listAccounts iterator to f. It
// handles both session iterators and the ones expanded by the server.
func traverseAccounts(ctx context.Context, inv iteratorTraverser, sessionID uuid.UUID, iter result.Iterator, batch int, f func(util.Uint160)) error {
	handle := func(items []stackitem.Item) error {
		for i := range items {
			b, err := items[i].TryBytes()
			if err != nil {
				return fmt.Errorf("account #%d: %w", i, err)
			}

			acc, err := util.Uint160DecodeBytesBE(b)
			if err != nil {
				return fmt.Errorf("account #%d: %w", i, err)
			}

			f(acc)
		}
		return nil
	}

	if iter.ID == nil {
		return handle(iter.Values)
	}

	defer func() {
		_ = inv.TerminateSession(sessionID)
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		items, err := inv.TraverseIterator(sessionID, &iter, batch)
		if err != nil {
			return fmt.Errorf("traverse iterator: %w", err)
		}

		if err = handle(items); err != nil {
			return err
		}

		if len(items) < batch {
			return nil
		}
	}
}

func newBoostCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "boost <account> <category> <amount>",
		Short: "Change reputation score of the account in the category, amount may be negative",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := parseAccount(args[0])
			if err != nil {
				return err
			}

			category, err := parseCategory(args[1])
			if err != nil {
				return err
			}

			amount, err := parseInt("amount", args[2])
			if err != nil {
				return err
			}

			return a.send(cmd, func(c *pond.Contract) (util.Uint256, uint32, error) {
				return c.UpdateReputation(acc, category, amount)
			})
		},
	}
}

func newMultiBoostCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "multi-boost <account> <category:amount>...",
		Short: "Change reputation scores of the account in several categories at once",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := parseAccount(args[0])
			if err != nil {
				return err
			}

			categories, amounts, err := parsePairs(args[1:])
			if err != nil {
				return err
			}

			return a.send(cmd, func(c *pond.Contract) (util.Uint256, uint32, error) {
				return c.MultiBoostReputation(acc, categories, amounts)
			})
		},
	}
}

func newDecayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decay <account> <amount>",
		Short: "Decrease reputation scores of the account in all categories",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := parseAccount(args[0])
			if err != nil {
				return err
			}

			amount, err := parseInt("amount", args[1])
			if err != nil {
				return err
			}
			if amount.Sign() < 0 {
				return fmt.Errorf("%w: %s", pond.ErrInvalidAmount, amount)
			}

			return a.send(cmd, func(c *pond.Contract) (util.Uint256, uint32, error) {
				return c.DecayReputation(acc, amount)
			})
		},
	}
}

func newMintCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mint <account> <badge>",
		Short: "Mint the badge for the account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := parseAccount(args[0])
			if err != nil {
				return err
			}

			id, err := parseInt("badge", args[1])
			if err != nil {
				return err
			}

			return a.send(cmd, func(c *pond.Contract) (util.Uint256, uint32, error) {
				return c.MintBadge(acc, id)
			})
		},
	}
}
