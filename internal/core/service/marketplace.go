package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"anonmarket/internal/core/domain"
	"anonmarket/internal/port"
)

// Receipt is the purchase confirmation handed back to the chat layer: the
// new order id plus a description/price snapshot taken inside the
// transaction, so the receipt matches what was actually reserved.
type Receipt struct {
	OrderID     int64
	ItemID      int64
	Description string
	Price       float64
}

// Marketplace is the sole entry point to the three stores and the only
// place where multi-store consistency is enforced. It owns no state itself,
// only the transaction boundary.
type Marketplace struct {
	stores  port.Stores
	tx      port.Transactor
	soldOut port.SoldOutCache
	log     logrus.FieldLogger
}

// NewMarketplace wires the service. soldOut may be nil; purchases then skip
// the fast-reject gate and go straight to the store.
func NewMarketplace(stores port.Stores, tx port.Transactor, soldOut port.SoldOutCache, log logrus.FieldLogger) *Marketplace {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Marketplace{
		stores:  stores,
		tx:      tx,
		soldOut: soldOut,
		log:     log,
	}
}

// ListItem creates a listing and bumps the seller's items_sold counter in
// one transaction. items_sold counts listings, not settled sales.
func (m *Marketplace) ListItem(ctx context.Context, sellerID int64, description string, price float64) (int64, error) {
	if err := domain.ValidateListing(description, price); err != nil {
		return 0, err
	}

	var itemID int64
	err := m.tx.WithinTx(ctx, func(st port.Stores) error {
		if err := st.Profiles.EnsureProfile(ctx, sellerID); err != nil {
			return err
		}

		id, err := st.Catalog.CreateItem(ctx, description, price, sellerID)
		if err != nil {
			return err
		}
		itemID = id

		return st.Profiles.IncrementSold(ctx, sellerID)
	})
	if err != nil {
		return 0, err
	}
	return itemID, nil
}

// PurchaseItem reserves one unit: stock check, decrement, order insert and
// buyer counter move together or not at all. A missing item and a sold-out
// item both surface as domain.ErrItemUnavailable.
func (m *Marketplace) PurchaseItem(ctx context.Context, buyerID, itemID int64, location string) (*Receipt, error) {
	if m.soldOut != nil {
		sold, err := m.soldOut.IsSoldOut(ctx, itemID)
		if err != nil {
			m.log.WithError(err).WithField("item_id", itemID).Warn("sold-out cache check failed")
		} else if sold {
			return nil, domain.ErrItemUnavailable
		}
	}

	var (
		receipt  Receipt
		depleted bool
	)
	err := m.tx.WithinTx(ctx, func(st port.Stores) error {
		if err := st.Profiles.EnsureProfile(ctx, buyerID); err != nil {
			return err
		}

		item, err := st.Catalog.ItemByID(ctx, itemID)
		if errors.Is(err, domain.ErrItemNotFound) {
			return domain.ErrItemUnavailable
		}
		if err != nil {
			return err
		}
		if item.Stock <= 0 {
			depleted = true
			return domain.ErrItemUnavailable
		}

		if err := st.Catalog.DecrementStock(ctx, itemID); err != nil {
			if errors.Is(err, domain.ErrOutOfStock) {
				// Lost the race for the last unit.
				depleted = true
				return domain.ErrItemUnavailable
			}
			if errors.Is(err, domain.ErrItemNotFound) {
				return domain.ErrItemUnavailable
			}
			return err
		}
		depleted = item.Stock == 1

		orderID, err := st.Orders.CreateOrder(ctx, buyerID, itemID, domain.OrderStatusPendingPayment, location)
		if err != nil {
			return err
		}

		if err := st.Profiles.IncrementBought(ctx, buyerID); err != nil {
			return err
		}

		receipt = Receipt{
			OrderID:     orderID,
			ItemID:      itemID,
			Description: item.Description,
			Price:       item.Price,
		}
		return nil
	})

	// Mark only when the zero-stock observation survives the transaction
	// outcome: a committed last-unit purchase, or a sold-out rejection. A
	// rollback after the decrement restores stock, so no marker then.
	if depleted && (err == nil || errors.Is(err, domain.ErrItemUnavailable)) {
		m.markSoldOut(ctx, itemID)
	}

	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

// BrowseCatalog returns the active catalog snapshot: stock > 0, ascending id.
func (m *Marketplace) BrowseCatalog(ctx context.Context) ([]domain.Item, error) {
	return m.stores.Catalog.ActiveItems(ctx)
}

// ProfileStats materializes a zero profile on first view, then reads it.
func (m *Marketplace) ProfileStats(ctx context.Context, userID int64) (*domain.Profile, error) {
	if err := m.stores.Profiles.EnsureProfile(ctx, userID); err != nil {
		return nil, err
	}
	return m.stores.Profiles.Stats(ctx, userID)
}

func (m *Marketplace) markSoldOut(ctx context.Context, itemID int64) {
	if m.soldOut == nil {
		return
	}
	if err := m.soldOut.MarkSoldOut(ctx, itemID); err != nil {
		m.log.WithError(err).WithField("item_id", itemID).Warn("failed to mark item sold out")
	}
}
