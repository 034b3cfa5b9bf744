package calculator

import (
	"github.com/google/uuid"
	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// CommissionOptions tunes how multiple profiles combine.
type CommissionOptions struct {
	// StackItemBased sums every item-based profile assigned to a staff member.
	// When false only the highest-earning item-based profile pays out.
	StackItemBased bool
}

// DefaultCommissionOptions stacks item-based profiles additively.
func DefaultCommissionOptions() CommissionOptions {
	return CommissionOptions{StackItemBased: true}
}

// ProfileCommission is the audit line of one profile in a commission result.
type ProfileCommission struct {
	ProfileID         uuid.UUID        `json:"profile_id"`
	ProfileName       string           `json:"profile_name"`
	Type              enum.ProfileType `json:"type"`
	ServiceBase       decimal.Decimal  `json:"service_base"`
	ProductBase       decimal.Decimal  `json:"product_base"`
	RevenueBase       decimal.Decimal  `json:"revenue_base"`
	ServiceRate       decimal.Decimal  `json:"service_rate"`
	ProductRate       decimal.Decimal  `json:"product_rate"`
	ServiceCommission decimal.Decimal  `json:"service_commission"`
	ProductCommission decimal.Decimal  `json:"product_commission"`
	Commission        decimal.Decimal  `json:"commission"`
	ItemCount         int              `json:"item_count"`
	// NotConfigured marks a target-based profile without tiers or a profile of unknown type
	NotConfigured bool `json:"not_configured"`
	// Suppressed marks an item-based profile left out because stacking is off
	Suppressed bool `json:"suppressed,omitempty"`
}

// CommissionResult is the commission owed to one staff member over a set of sales.
type CommissionResult struct {
	StaffID                 uuid.UUID           `json:"staff_id"`
	StaffName               string              `json:"staff_name"`
	SaleCount               int                 `json:"sale_count"`
	ItemCount               int                 `json:"item_count"`
	ServiceRevenue          decimal.Decimal     `json:"service_revenue"`
	ProductRevenue          decimal.Decimal     `json:"product_revenue"`
	TotalRevenue            decimal.Decimal     `json:"total_revenue"`
	ServiceCommission       decimal.Decimal     `json:"service_commission"`
	ProductCommission       decimal.Decimal     `json:"product_commission"`
	TotalCommission         decimal.Decimal     `json:"total_commission"`
	EffectiveCommissionRate decimal.Decimal     `json:"effective_commission_rate"`
	ProfileBreakdown        []ProfileCommission `json:"profile_breakdown"`
	MissingProfileIDs       []uuid.UUID         `json:"missing_profile_ids,omitempty"`
}

// CommissionCalculator computes staff commission from sales and profiles. It
// holds no mutable state; results for different staff are independent.
type CommissionCalculator struct {
	opts CommissionOptions
}

// NewCommissionCalculator creates a commission calculator
func NewCommissionCalculator(opts CommissionOptions) *CommissionCalculator {
	return &CommissionCalculator{opts: opts}
}

type creditedLine struct {
	name  string
	kind  enum.ItemKind
	total decimal.Decimal
}

// CalculateForStaff computes the commission owed to staff across sales using
// the profiles assigned to them. Cancelled sales never contribute.
func (c *CommissionCalculator) CalculateForStaff(staff entity.Staff, sales []entity.Sale, profiles []entity.CommissionProfile) CommissionResult {
	result := CommissionResult{
		StaffID:          staff.ID,
		StaffName:        staff.Name,
		ProfileBreakdown: []ProfileCommission{},
	}

	lines := make([]creditedLine, 0)
	for i := range sales {
		sale := &sales[i]
		if !sale.Status.Counts() {
			continue
		}
		credited := false
		for j := range sale.Items {
			item := &sale.Items[j]
			if !CreditedTo(sale, item, &staff) {
				continue
			}
			credited = true
			lines = append(lines, creditedLine{name: item.Name, kind: item.Kind, total: item.LineTotal()})
		}
		if credited {
			result.SaleCount++
		}
	}

	for _, line := range lines {
		if line.kind == enum.ItemKindService {
			result.ServiceRevenue = result.ServiceRevenue.Add(line.total)
		} else {
			result.ProductRevenue = result.ProductRevenue.Add(line.total)
		}
	}
	result.ItemCount = len(lines)
	result.TotalRevenue = result.ServiceRevenue.Add(result.ProductRevenue)

	byID := make(map[uuid.UUID]*entity.CommissionProfile, len(profiles))
	for i := range profiles {
		byID[profiles[i].ID] = &profiles[i]
	}

	seen := make(map[uuid.UUID]bool, len(staff.CommissionProfileIDs))
	for _, id := range staff.CommissionProfileIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		profile, ok := byID[id]
		if !ok {
			result.MissingProfileIDs = append(result.MissingProfileIDs, id)
			continue
		}

		var entry ProfileCommission
		switch profile.Type {
		case enum.ProfileTypeItemBased:
			entry = itemBased(profile, lines)
		case enum.ProfileTypeTargetBased:
			entry = targetBased(profile, lines)
		default:
			entry = ProfileCommission{
				ProfileID:     profile.ID,
				ProfileName:   profile.Name,
				Type:          profile.Type,
				NotConfigured: true,
			}
		}
		result.ProfileBreakdown = append(result.ProfileBreakdown, entry)
	}

	if !c.opts.StackItemBased {
		suppressStackedItemBased(result.ProfileBreakdown)
	}

	for _, entry := range result.ProfileBreakdown {
		result.ServiceCommission = result.ServiceCommission.Add(entry.ServiceCommission)
		result.ProductCommission = result.ProductCommission.Add(entry.ProductCommission)
		result.TotalCommission = result.TotalCommission.Add(entry.Commission)
	}

	if result.TotalRevenue.IsPositive() {
		result.EffectiveCommissionRate = result.TotalCommission.DivRound(result.TotalRevenue, 6)
	}

	return result
}

// CalculateForAllStaff applies CalculateForStaff to every staff member in order.
func (c *CommissionCalculator) CalculateForAllStaff(sales []entity.Sale, staffList []entity.Staff, profiles []entity.CommissionProfile) []CommissionResult {
	results := make([]CommissionResult, 0, len(staffList))
	for _, staff := range staffList {
		results = append(results, c.CalculateForStaff(staff, sales, profiles))
	}
	return results
}

func itemBased(profile *entity.CommissionProfile, lines []creditedLine) ProfileCommission {
	entry := ProfileCommission{
		ProfileID:   profile.ID,
		ProfileName: profile.Name,
		Type:        enum.ProfileTypeItemBased,
		ServiceRate: profile.ServiceRate,
		ProductRate: profile.ProductRate,
	}

	for _, line := range lines {
		if !profile.InScope(line.name) {
			continue
		}
		entry.ItemCount++
		if line.kind == enum.ItemKindService {
			entry.ServiceBase = entry.ServiceBase.Add(line.total)
		} else {
			entry.ProductBase = entry.ProductBase.Add(line.total)
		}
	}
	entry.RevenueBase = entry.ServiceBase.Add(entry.ProductBase)

	entry.ServiceCommission = percentOf(entry.ServiceBase, entry.ServiceRate)
	entry.ProductCommission = percentOf(entry.ProductBase, entry.ProductRate)
	entry.Commission = entry.ServiceCommission.Add(entry.ProductCommission)
	return entry
}

func targetBased(profile *entity.CommissionProfile, lines []creditedLine) ProfileCommission {
	entry := ProfileCommission{
		ProfileID:     profile.ID,
		ProfileName:   profile.Name,
		Type:          enum.ProfileTypeTargetBased,
		NotConfigured: len(profile.Tiers) == 0,
	}

	for _, line := range lines {
		entry.ItemCount++
		if line.kind == enum.ItemKindService {
			entry.ServiceBase = entry.ServiceBase.Add(line.total)
		} else {
			entry.ProductBase = entry.ProductBase.Add(line.total)
		}
	}
	entry.RevenueBase = entry.ServiceBase.Add(entry.ProductBase)

	rate := TierRate(profile.Tiers, entry.RevenueBase)
	entry.ServiceRate = rate
	entry.ProductRate = rate

	// The tier rate applies flat to the whole revenue; the product share is
	// derived so both parts always add up to the profile commission.
	entry.Commission = percentOf(entry.RevenueBase, rate)
	entry.ServiceCommission = percentOf(entry.ServiceBase, rate)
	entry.ProductCommission = entry.Commission.Sub(entry.ServiceCommission)
	return entry
}

// TierRate returns the rate of the tier with the highest threshold not
// exceeding revenue, or zero when no tier qualifies. Tier order is irrelevant.
func TierRate(tiers []entity.CommissionTier, revenue decimal.Decimal) decimal.Decimal {
	rate := decimal.Zero
	var best *entity.CommissionTier
	for i := range tiers {
		tier := &tiers[i]
		if tier.Threshold.GreaterThan(revenue) {
			continue
		}
		if best == nil || tier.Threshold.GreaterThan(best.Threshold) {
			best = tier
			rate = tier.Rate
		}
	}
	return rate
}

func suppressStackedItemBased(entries []ProfileCommission) {
	keep := -1
	for i, entry := range entries {
		if entry.Type != enum.ProfileTypeItemBased {
			continue
		}
		if keep == -1 {
			keep = i
			continue
		}
		best := entries[keep]
		if entry.Commission.GreaterThan(best.Commission) ||
			(entry.Commission.Equal(best.Commission) && entry.ProfileID.String() < best.ProfileID.String()) {
			keep = i
		}
	}

	for i := range entries {
		if entries[i].Type != enum.ProfileTypeItemBased || i == keep {
			continue
		}
		entries[i].Suppressed = true
		entries[i].ServiceCommission = decimal.Zero
		entries[i].ProductCommission = decimal.Zero
		entries[i].Commission = decimal.Zero
	}
}

func percentOf(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Div(hundred).Round(2)
}
