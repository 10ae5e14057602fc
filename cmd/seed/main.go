package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"roomly/internal/addons"
	"roomly/internal/policies"
	"roomly/internal/promotions"
	"roomly/internal/properties"
	"roomly/internal/shared/config"
	"roomly/internal/shared/database"

	"github.com/google/uuid"
)

type Seeder struct {
	db *database.DB

	// Deterministic actor IDs so re-runs produce the same ownership
	adminID uuid.UUID
	hostID  uuid.UUID
}

func main() {
	fmt.Println("🌱 Starting Roomly Database Seeder...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{
		db:      db,
		adminID: uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		hostID:  uuid.MustParse("22222222-2222-2222-2222-222222222222"),
	}

	// Clean database
	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	// Seed data
	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in the correct order (respecting foreign key constraints)
func (s *Seeder) CleanDatabase() error {
	// Order matters due to foreign key constraints
	// Delete in reverse dependency order
	tables := []string{
		"refund_requests",
		"payments",
		"payment_installments",
		"booking_addons",
		"booking_rooms",
		"promotion_redemptions",
		"bookings",
		"cancellation_policies",
		"payment_rules",
		"promotion_rooms",
		"promotions",
		"addon_rooms",
		"addons",
		"rooms",
		"properties",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// Disable foreign key constraints temporarily
	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	// Re-enable foreign key constraints
	if err := tx.Exec("SET CONSTRAINTS ALL IMMEDIATE").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore constraints: %w", err)
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	propertyIDs, roomIDs, err := s.SeedProperties()
	if err != nil {
		return fmt.Errorf("failed to seed properties: %w", err)
	}

	if err := s.SeedAddons(propertyIDs, roomIDs); err != nil {
		return fmt.Errorf("failed to seed addons: %w", err)
	}

	if err := s.SeedPromotions(propertyIDs, roomIDs); err != nil {
		return fmt.Errorf("failed to seed promotions: %w", err)
	}

	if err := s.SeedPaymentRules(propertyIDs, roomIDs); err != nil {
		return fmt.Errorf("failed to seed payment rules: %w", err)
	}

	if err := s.SeedCancellationPolicies(propertyIDs); err != nil {
		return fmt.Errorf("failed to seed cancellation policies: %w", err)
	}

	// Clear Redis cache to ensure fresh state
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to clear Redis cache: %v", err)
	}

	return nil
}

// SeedProperties creates sample properties with rooms.
// Returns property IDs keyed by name and room IDs keyed by "property/room".
func (s *Seeder) SeedProperties() (map[string]uuid.UUID, map[string]uuid.UUID, error) {
	fmt.Println("  🏨 Seeding properties and rooms...")

	propertyIDs := make(map[string]uuid.UUID)
	roomIDs := make(map[string]uuid.UUID)

	propertiesData := []struct {
		name        string
		description string
		address     string
		city        string
		country     string
		currency    string
		rooms       []struct {
			name             string
			nightlyRateMinor int64
			occupancyMode    string
			maxOccupancy     int
			childDiscountPct int
			totalUnits       int
		}
	}{
		{
			name:        "Seaside Villa",
			description: "Beachfront villa with private pool and garden rooms.",
			address:     "12 Shoreline Drive",
			city:        "Goa",
			country:     "India",
			currency:    "INR",
			rooms: []struct {
				name             string
				nightlyRateMinor int64
				occupancyMode    string
				maxOccupancy     int
				childDiscountPct int
				totalUnits       int
			}{
				{"Ocean Suite", 1200000, "flat", 4, 0, 2},          // 12000.00 INR/night
				{"Garden Room", 650000, "per_person_sharing", 3, 50, 5}, // 6500.00 INR/person/night, kids half price
			},
		},
		{
			name:        "City Lights Hotel",
			description: "Business hotel in the heart of the financial district.",
			address:     "88 Market Street",
			city:        "Mumbai",
			country:     "India",
			currency:    "INR",
			rooms: []struct {
				name             string
				nightlyRateMinor int64
				occupancyMode    string
				maxOccupancy     int
				childDiscountPct int
				totalUnits       int
			}{
				{"Executive King", 950000, "flat", 2, 0, 10},
				{"Twin Standard", 700000, "flat", 2, 0, 20},
				{"Family Loft", 500000, "per_person_sharing", 5, 40, 4},
			},
		},
		{
			name:        "Alpine Lodge",
			description: "Mountain lodge with shared-occupancy bunk rooms and chalets.",
			address:     "3 Summit Trail",
			city:        "Manali",
			country:     "India",
			currency:    "INR",
			rooms: []struct {
				name             string
				nightlyRateMinor int64
				occupancyMode    string
				maxOccupancy     int
				childDiscountPct int
				totalUnits       int
			}{
				{"Chalet", 1800000, "flat", 6, 0, 3},
				{"Bunk Room", 250000, "per_person_sharing", 8, 25, 6},
			},
		},
	}

	for _, propertyData := range propertiesData {
		property := properties.Property{
			ID:          uuid.New(),
			Name:        propertyData.name,
			Description: propertyData.description,
			Address:     propertyData.address,
			City:        propertyData.city,
			Country:     propertyData.country,
			Currency:    propertyData.currency,
			Status:      properties.StatusActive,
			HostID:      s.hostID,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&property).Error; err != nil {
			return nil, nil, fmt.Errorf("failed to create property %s: %w", property.Name, err)
		}

		propertyIDs[property.Name] = property.ID
		fmt.Printf("    ✅ Created property: %s (%s)\n", property.Name, property.City)

		for _, roomData := range propertyData.rooms {
			room := properties.Room{
				ID:               uuid.New(),
				PropertyID:       property.ID,
				Name:             roomData.name,
				NightlyRateMinor: roomData.nightlyRateMinor,
				Currency:         property.Currency,
				OccupancyMode:    roomData.occupancyMode,
				MaxOccupancy:     roomData.maxOccupancy,
				ChildDiscountPct: roomData.childDiscountPct,
				TotalUnits:       roomData.totalUnits,
				IsActive:         true,
				CreatedAt:        time.Now(),
				UpdatedAt:        time.Now(),
			}

			if err := s.db.PostgreSQL.Create(&room).Error; err != nil {
				return nil, nil, fmt.Errorf("failed to create room %s: %w", room.Name, err)
			}

			roomIDs[property.Name+"/"+room.Name] = room.ID
			fmt.Printf("      ✅ Created room: %s (%d units)\n", room.Name, room.TotalUnits)
		}
	}

	return propertyIDs, roomIDs, nil
}

// SeedAddons creates purchasable extras for each property
func (s *Seeder) SeedAddons(propertyIDs, roomIDs map[string]uuid.UUID) error {
	fmt.Println("  🧺 Seeding addons...")

	addonsData := []struct {
		property       string
		name           string
		description    string
		unitPriceMinor int64
		pricingMode    string
		maxQuantity    int
		roomKeys       []string // empty means property-wide
	}{
		{"Seaside Villa", "Breakfast", "Continental breakfast per guest per night", 50000, "per_guest_per_night", 0, nil},
		{"Seaside Villa", "Airport Transfer", "Round trip airport pickup", 300000, "per_booking", 1, nil},
		{"Seaside Villa", "Beach Cabana", "Reserved cabana, Ocean Suite only", 150000, "per_night", 2, []string{"Seaside Villa/Ocean Suite"}},
		{"City Lights Hotel", "Breakfast", "Buffet breakfast per guest per night", 65000, "per_guest_per_night", 0, nil},
		{"City Lights Hotel", "Late Checkout", "Checkout until 4pm", 100000, "per_booking", 1, nil},
		{"Alpine Lodge", "Ski Equipment", "Full equipment rental per guest", 400000, "per_guest", 1, nil},
		{"Alpine Lodge", "Fireplace Wood", "Nightly firewood bundle, chalets only", 30000, "per_night", 0, []string{"Alpine Lodge/Chalet"}},
	}

	for _, addonData := range addonsData {
		propertyID, ok := propertyIDs[addonData.property]
		if !ok {
			return fmt.Errorf("unknown property %s", addonData.property)
		}

		addon := addons.Addon{
			ID:             uuid.New(),
			PropertyID:     propertyID,
			Name:           addonData.name,
			Description:    addonData.description,
			UnitPriceMinor: addonData.unitPriceMinor,
			Currency:       "INR",
			PricingMode:    addonData.pricingMode,
			MaxQuantity:    addonData.maxQuantity,
			IsActive:       true,
			CreatedBy:      s.adminID,
			CreatedAt:      time.Now(),
			UpdatedAt:      time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&addon).Error; err != nil {
			return fmt.Errorf("failed to create addon %s: %w", addon.Name, err)
		}

		for _, roomKey := range addonData.roomKeys {
			roomID, ok := roomIDs[roomKey]
			if !ok {
				return fmt.Errorf("unknown room %s", roomKey)
			}
			link := addons.AddonRoom{
				ID:        uuid.New(),
				AddonID:   addon.ID,
				RoomID:    roomID,
				CreatedAt: time.Now(),
			}
			if err := s.db.PostgreSQL.Create(&link).Error; err != nil {
				return fmt.Errorf("failed to link addon %s to room: %w", addon.Name, err)
			}
		}

		fmt.Printf("    ✅ Created addon: %s @ %s (%s)\n", addon.Name, addonData.property, addon.PricingMode)
	}

	return nil
}

// SeedPromotions creates discount codes
func (s *Seeder) SeedPromotions(propertyIDs, roomIDs map[string]uuid.UUID) error {
	fmt.Println("  🎟️ Seeding promotions...")

	promotionsData := []struct {
		property     string
		code         string
		description  string
		discountType string
		value        int64
		currency     string
		validDays    int
		usageLimit   int
		roomKeys     []string
	}{
		{"Seaside Villa", "SUMMER20", "20% off summer stays", "percentage", 20, "", 90, 100, nil},
		{"Seaside Villa", "SUITE5000", "Flat 5000 INR off the Ocean Suite", "fixed", 500000, "INR", 60, 50, []string{"Seaside Villa/Ocean Suite"}},
		{"City Lights Hotel", "BIZ10", "10% off for business travellers", "percentage", 10, "", 180, 0, nil},
		{"Alpine Lodge", "EARLYBIRD", "15% off early season bookings", "percentage", 15, "", 45, 200, nil},
	}

	for _, promoData := range promotionsData {
		propertyID, ok := propertyIDs[promoData.property]
		if !ok {
			return fmt.Errorf("unknown property %s", promoData.property)
		}

		promo := promotions.Promotion{
			ID:           uuid.New(),
			PropertyID:   propertyID,
			Code:         promoData.code,
			Description:  promoData.description,
			DiscountType: promoData.discountType,
			Value:        promoData.value,
			Currency:     promoData.currency,
			ValidFrom:    time.Now(),
			ValidUntil:   time.Now().AddDate(0, 0, promoData.validDays),
			UsageLimit:   promoData.usageLimit,
			IsActive:     true,
			CreatedBy:    s.adminID,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&promo).Error; err != nil {
			return fmt.Errorf("failed to create promotion %s: %w", promo.Code, err)
		}

		for _, roomKey := range promoData.roomKeys {
			roomID, ok := roomIDs[roomKey]
			if !ok {
				return fmt.Errorf("unknown room %s", roomKey)
			}
			link := promotions.PromotionRoom{
				ID:          uuid.New(),
				PromotionID: promo.ID,
				RoomID:      roomID,
				CreatedAt:   time.Now(),
			}
			if err := s.db.PostgreSQL.Create(&link).Error; err != nil {
				return fmt.Errorf("failed to link promotion %s to room: %w", promo.Code, err)
			}
		}

		fmt.Printf("    ✅ Created promotion: %s (%s)\n", promo.Code, promo.DiscountType)
	}

	return nil
}

// SeedPaymentRules creates deposit and schedule rules at both scopes
func (s *Seeder) SeedPaymentRules(propertyIDs, roomIDs map[string]uuid.UUID) error {
	fmt.Println("  💳 Seeding payment rules...")

	// Property-wide deposit: 30% now, balance 7 days before checkin
	depositRule := policies.PaymentRule{
		ID:                uuid.New(),
		Kind:              "deposit",
		ScopeType:         "property",
		ScopeID:           propertyIDs["Seaside Villa"],
		Priority:          0,
		DepositAmountKind: "percentage",
		DepositValue:      30,
		DepositDueAnchor:  "immediately",
		BalanceDueAnchor:  "days_before_checkin",
		BalanceDueDays:    7,
		IsActive:          true,
		CreatedBy:         s.adminID,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
	if err := s.db.PostgreSQL.Create(&depositRule).Error; err != nil {
		return fmt.Errorf("failed to create deposit rule: %w", err)
	}
	fmt.Println("    ✅ Created property deposit rule for Seaside Villa")

	// Room-scoped rule wins over the property rule for the Ocean Suite
	suiteRule := policies.PaymentRule{
		ID:                uuid.New(),
		Kind:              "deposit",
		ScopeType:         "room",
		ScopeID:           roomIDs["Seaside Villa/Ocean Suite"],
		Priority:          10,
		DepositAmountKind: "percentage",
		DepositValue:      50,
		DepositDueAnchor:  "immediately",
		BalanceDueAnchor:  "days_before_checkin",
		BalanceDueDays:    14,
		IsActive:          true,
		CreatedBy:         s.adminID,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
	if err := s.db.PostgreSQL.Create(&suiteRule).Error; err != nil {
		return fmt.Errorf("failed to create room deposit rule: %w", err)
	}
	fmt.Println("    ✅ Created room deposit rule for Ocean Suite")

	// Three-part schedule for the Alpine Lodge
	scheduleRule := policies.PaymentRule{
		ID:        uuid.New(),
		Kind:      "payment_schedule",
		ScopeType: "property",
		ScopeID:   propertyIDs["Alpine Lodge"],
		Priority:  0,
		Schedule: policies.ScheduleEntries{
			{AmountKind: "percentage", Value: 25, DueAnchor: "immediately"},
			{AmountKind: "percentage", Value: 25, DueAnchor: "days_after_booking", DueDays: 14},
			{AmountKind: "percentage", Value: 50, DueAnchor: "days_before_checkin", DueDays: 21},
		},
		IsActive:  true,
		CreatedBy: s.adminID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.db.PostgreSQL.Create(&scheduleRule).Error; err != nil {
		return fmt.Errorf("failed to create schedule rule: %w", err)
	}
	fmt.Println("    ✅ Created payment schedule rule for Alpine Lodge")

	return nil
}

// SeedCancellationPolicies creates tiered refund policies per property
func (s *Seeder) SeedCancellationPolicies(propertyIDs map[string]uuid.UUID) error {
	fmt.Println("  📋 Seeding cancellation policies...")

	policiesData := []struct {
		property string
		name     string
		tiers    policies.PolicyTiers
	}{
		{
			property: "Seaside Villa",
			name:     "Flexible",
			tiers: policies.PolicyTiers{
				{DaysBeforeCheckin: 7, RefundPercentage: 100},
				{DaysBeforeCheckin: 3, RefundPercentage: 50},
				{DaysBeforeCheckin: 0, RefundPercentage: 0},
			},
		},
		{
			property: "City Lights Hotel",
			name:     "Moderate",
			tiers: policies.PolicyTiers{
				{DaysBeforeCheckin: 14, RefundPercentage: 100},
				{DaysBeforeCheckin: 7, RefundPercentage: 50},
				{DaysBeforeCheckin: 0, RefundPercentage: 0},
			},
		},
		{
			property: "Alpine Lodge",
			name:     "Strict",
			tiers: policies.PolicyTiers{
				{DaysBeforeCheckin: 30, RefundPercentage: 75},
				{DaysBeforeCheckin: 14, RefundPercentage: 25},
				{DaysBeforeCheckin: 0, RefundPercentage: 0},
			},
		},
	}

	for _, policyData := range policiesData {
		propertyID, ok := propertyIDs[policyData.property]
		if !ok {
			return fmt.Errorf("unknown property %s", policyData.property)
		}

		policy := policies.CancellationPolicy{
			ID:         uuid.New(),
			PropertyID: propertyID,
			Name:       policyData.name,
			Tiers:      policyData.tiers,
			IsActive:   true,
			CreatedBy:  s.adminID,
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&policy).Error; err != nil {
			return fmt.Errorf("failed to create cancellation policy %s: %w", policy.Name, err)
		}

		fmt.Printf("    ✅ Created cancellation policy: %s @ %s\n", policy.Name, policyData.property)
	}

	return nil
}
