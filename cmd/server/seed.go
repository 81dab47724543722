package main

import (
	"context"
	"fmt"
	"time"

	"buurtmarkt/internal/domain/entities"
	"buurtmarkt/internal/repository"
)

func coordinate(lat, lng float64) (*float64, *float64) {
	return &lat, &lng
}

func count(n int) *int {
	return &n
}

// seedDemoData loads a small Dutch and Caribbean sample so the API can be
// tried without an external candidate store.
func seedDemoData(ctx context.Context, profiles repository.ProfileRepository, listings repository.ListingRepository, people repository.PersonRepository) error {
	now := time.Now().UTC()

	demo := entities.NewProfile("demo-user", "Demo", "NL")
	demo.SetLocation("Utrecht", entities.NewCoordinate(52.0907, 5.1214))
	if err := profiles.Create(ctx, demo); err != nil {
		return fmt.Errorf("profile %s: %w", demo.UserID, err)
	}

	damLat, damLng := coordinate(52.3730, 4.8924)
	utrLat, utrLng := coordinate(52.0907, 5.1214)
	zwoLat, zwoLng := coordinate(52.5168, 6.0830)
	wilLat, wilLng := coordinate(12.1091, -68.9316)

	for _, l := range []*entities.Listing{
		{ID: "listing-1", Title: "Verse erwtensoep", Description: "Met rookworst en roggebrood", PriceCents: 650, Category: entities.CategoryCheff, Subcategory: "soep", CreatedAt: now.Add(-2 * time.Hour), SellerName: "Maria Jansen", SellerUsername: "mariaj", Place: "Amsterdam", City: "Amsterdam", Lat: damLat, Lng: damLng, DeliveryMode: "PICKUP", FavoriteCount: count(12)},
		{ID: "listing-2", Title: "Moestuintomaten", Description: "Zongerijpt, per kilo", PriceCents: 350, Category: entities.CategoryGrown, CreatedAt: now.Add(-26 * time.Hour), SellerName: "Kees de Boer", SellerUsername: "keesdeboer", Place: "Utrecht", City: "Utrecht", Lat: utrLat, Lng: utrLng},
		{ID: "listing-3", Title: "Keramieken vaas", Description: "Handgedraaid", PriceCents: 4500, Category: entities.CategoryDesigner, Subcategory: "keramiek", CreatedAt: now.Add(-72 * time.Hour), SellerName: "Anouk Visser", Place: "Zwolle", City: "Zwolle", Lat: zwoLat, Lng: zwoLng, ReviewCount: count(3)},
		{ID: "listing-4", Title: "Keshi yena", Description: "Traditioneel Curaçaos gerecht", PriceCents: 1200, Category: entities.CategoryCheff, CreatedAt: now.Add(-5 * time.Hour), SellerName: "Shirley Martina", Place: "Willemstad", City: "Willemstad", Lat: wilLat, Lng: wilLng},
		{ID: "listing-5", Title: "Appeltaart", Description: "Alleen bezorging", PriceCents: 900, Category: entities.CategoryCheff, CreatedAt: now.Add(-1 * time.Hour), SellerName: "Joost Bakker", DeliveryMode: "DELIVERY"},
	} {
		if err := listings.Create(ctx, l); err != nil {
			return fmt.Errorf("listing %s: %w", l.ID, err)
		}
	}

	for _, p := range []*entities.Person{
		{ID: "person-1", Name: "Maria Jansen", Username: "mariaj", Bio: "Kookt elke week soep", Role: entities.RoleUser, SellerRoles: []string{entities.CategoryCheff}, Place: "Amsterdam", City: "Amsterdam", Lat: damLat, Lng: damLng, FollowerCount: count(140), ProductCount: count(8), CreatedAt: now.Add(-400 * time.Hour)},
		{ID: "person-2", Name: "Kees de Boer", Username: "keesdeboer", Role: entities.RoleUser, SellerRoles: []string{entities.CategoryGrown}, Place: "Utrecht", City: "Utrecht", Lat: utrLat, Lng: utrLng, FollowerCount: count(35), ProductCount: count(21), CreatedAt: now.Add(-300 * time.Hour)},
		{ID: "person-3", Name: "Ahmed El Idrissi", Username: "ahmed", Role: entities.RoleUser, BuyerRoles: []string{entities.RoleDelivery}, Place: "Utrecht", City: "Utrecht", CreatedAt: now.Add(-100 * time.Hour)},
		{ID: "person-4", Name: "Beheerder", Username: "admin", Role: entities.RoleAdmin, CreatedAt: now.Add(-1000 * time.Hour)},
	} {
		if err := people.Create(ctx, p); err != nil {
			return fmt.Errorf("person %s: %w", p.ID, err)
		}
	}
	return nil
}
