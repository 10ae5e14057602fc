package pricing

// Quote is the aggregated price of a booking. GrandTotal always equals
// RoomsSubtotal + AddonsSubtotal - DiscountTotal, floored at zero.
type Quote struct {
	Currency       string        `json:"currency"`
	RoomCharges    []RoomCharge  `json:"room_charges"`
	AddonCharges   []AddonCharge `json:"addon_charges"`
	RoomsSubtotal  Money         `json:"rooms_subtotal"`
	AddonsSubtotal Money         `json:"addons_subtotal"`
	DiscountTotal  Money         `json:"discount_total"`
	GrandTotal     Money         `json:"grand_total"`
}

// BuildQuote composes priced rooms, priced add-ons and an optional
// resolved promotion into a booking total. At most one promotion may
// be applied per booking; callers holding a second code get
// ErrPromotionAlreadyApplied from the booking service before reaching
// this point.
func BuildQuote(rooms []RoomCharge, addons []AddonCharge, promo *PromotionDiscount) (Quote, error) {
	if len(rooms) == 0 {
		return Quote{}, ErrInvalidInput
	}

	currency := rooms[0].Subtotal.Currency
	roomsSubtotal := Zero(currency)
	for _, rc := range rooms {
		sum, err := roomsSubtotal.Add(rc.Subtotal)
		if err != nil {
			return Quote{}, err
		}
		roomsSubtotal = sum
	}

	addonsSubtotal := Zero(currency)
	for _, ac := range addons {
		sum, err := addonsSubtotal.Add(ac.Total)
		if err != nil {
			return Quote{}, err
		}
		addonsSubtotal = sum
	}

	discountTotal := Zero(currency)
	if promo != nil {
		sum, err := discountTotal.Add(promo.DiscountAmount)
		if err != nil {
			return Quote{}, err
		}
		discountTotal = sum
	}

	grand, err := roomsSubtotal.Add(addonsSubtotal)
	if err != nil {
		return Quote{}, err
	}
	grand, err = grand.Sub(discountTotal)
	if err != nil {
		return Quote{}, err
	}

	return Quote{
		Currency:       currency,
		RoomCharges:    rooms,
		AddonCharges:   addons,
		RoomsSubtotal:  roomsSubtotal,
		AddonsSubtotal: addonsSubtotal,
		DiscountTotal:  discountTotal,
		GrandTotal:     grand.ClampZero(),
	}, nil
}
