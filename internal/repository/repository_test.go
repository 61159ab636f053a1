package repository

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/carkit/carkit-api/internal/database"
	"github.com/carkit/carkit-api/internal/model"
	"github.com/carkit/carkit-api/internal/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, users *UserRepo, email string) *model.User {
	t.Helper()
	u, err := users.Create(context.Background(), email, "digest", model.ProviderLocal)
	if err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

func seedCar(t *testing.T, cars *CarRepo, userID uint64, name string) *model.Car {
	t.Helper()
	c := &model.Car{UserID: userID, Name: name, Brand: "Toyota", Model: "Yaris", Type: "gasoline", Year: 2019}
	if err := cars.Create(context.Background(), c); err != nil {
		t.Fatalf("seed car %s: %v", name, err)
	}
	return c
}

func TestUserEmailUniqueness(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepo(db)
	ctx := context.Background()

	u := seedUser(t, users, "one@example.com")

	if _, err := users.Create(ctx, "one@example.com", "digest", model.ProviderLocal); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("duplicate email accepted: %v", err)
	}

	// After a soft delete the address is free again.
	if err := users.SoftDelete(ctx, u); err != nil {
		t.Fatal(err)
	}
	again, err := users.Create(ctx, "one@example.com", "digest2", model.ProviderLocal)
	if err != nil {
		t.Fatalf("re-registration after soft delete failed: %v", err)
	}
	if again.ID == u.ID {
		t.Error("re-registration reused the deleted account")
	}

	// The deleted row is gone from lookups but still present in the table.
	if _, err := users.GetActiveByID(ctx, u.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("soft-deleted user still visible: %v", err)
	}
	var count int64
	db.Model(&model.User{}).Where("email = ?", "one@example.com").Count(&count)
	if count != 2 {
		t.Errorf("got %d rows for the email, want 2", count)
	}
}

func TestUserPlaceholderPassword(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepo(db)

	u, err := users.Create(context.Background(), "apple@example.com", utils.PlaceholderPassword, model.ProviderApple)
	if err != nil {
		t.Fatal(err)
	}
	if u.Password != utils.PlaceholderPassword {
		t.Errorf("placeholder not stored verbatim: %q", u.Password)
	}
}

func TestCarOwnershipIsolation(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepo(db)
	cars := NewCarRepo(db)
	ctx := context.Background()

	alice := seedUser(t, users, "alice@example.com")
	mallory := seedUser(t, users, "mallory@example.com")
	car := seedCar(t, cars, alice.ID, "Daily")

	if _, err := cars.ByIDForUser(ctx, car.ID, alice.ID); err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
	// Someone else's car and a missing car look the same.
	if _, err := cars.ByIDForUser(ctx, car.ID, mallory.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign car visible: %v", err)
	}
	if _, err := cars.ByIDForUser(ctx, 9999, alice.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing car: %v", err)
	}

	list, err := cars.ListForUser(ctx, mallory.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Errorf("mallory sees %d cars", len(list))
	}
}

func TestChildOwnershipChains(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepo(db)
	cars := NewCarRepo(db)
	parts := NewPartRepo(db)
	services := NewServiceRepo(db)
	mileages := NewMileageRepo(db)
	ctx := context.Background()

	alice := seedUser(t, users, "alice@example.com")
	mallory := seedUser(t, users, "mallory@example.com")
	car := seedCar(t, cars, alice.ID, "Daily")

	entry := &model.MileageEntry{CarID: car.ID, Mileage: 42000, Date: "2026-08-01"}
	if err := mileages.Create(ctx, entry); err != nil {
		t.Fatal(err)
	}
	part := &model.Part{CarID: car.ID, Name: "Front brakes", Status: "worn"}
	if err := parts.Create(ctx, part); err != nil {
		t.Fatal(err)
	}
	svc := &model.Service{PartID: part.ID, Date: "2026-08-15", Mileage: 42100}
	if err := services.Create(ctx, svc); err != nil {
		t.Fatal(err)
	}

	// One hop: entry -> car -> user.
	if _, err := mileages.ByIDForUser(ctx, entry.ID, alice.ID); err != nil {
		t.Errorf("owner mileage lookup: %v", err)
	}
	if _, err := mileages.ByIDForUser(ctx, entry.ID, mallory.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign mileage visible: %v", err)
	}

	// Two hops: service -> part -> car -> user.
	if _, err := services.ByIDForUser(ctx, svc.ID, alice.ID); err != nil {
		t.Errorf("owner service lookup: %v", err)
	}
	if _, err := services.ByIDForUser(ctx, svc.ID, mallory.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign service visible: %v", err)
	}
}

func TestCarDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepo(db)
	cars := NewCarRepo(db)
	parts := NewPartRepo(db)
	services := NewServiceRepo(db)
	mileages := NewMileageRepo(db)
	fullTanks := NewFullTankRepo(db)
	spendings := NewSpendingRepo(db)
	ctx := context.Background()

	alice := seedUser(t, users, "alice@example.com")
	car := seedCar(t, cars, alice.ID, "Daily")
	keep := seedCar(t, cars, alice.ID, "Weekend")

	part := &model.Part{CarID: car.ID, Name: "Oil filter", Status: "ok"}
	if err := parts.Create(ctx, part); err != nil {
		t.Fatal(err)
	}
	svc := &model.Service{PartID: part.ID, Date: "2026-07-01", Mileage: 40000}
	if err := services.Create(ctx, svc); err != nil {
		t.Fatal(err)
	}
	if err := mileages.Create(ctx, &model.MileageEntry{CarID: car.ID, Mileage: 40100, Date: "2026-07-02"}); err != nil {
		t.Fatal(err)
	}
	if err := fullTanks.Create(ctx, &model.FullTankEntry{CarID: car.ID, Quantity: 41.5, Unit: "l", Cost: 70, Mileage: 40100, Date: "2026-07-02"}); err != nil {
		t.Fatal(err)
	}
	if err := spendings.Create(ctx, &model.SpendingEntry{CarID: car.ID, Amount: 70, Type: "fuel", Date: "2026-07-02"}); err != nil {
		t.Fatal(err)
	}
	keepEntry := &model.MileageEntry{CarID: keep.ID, Mileage: 1000, Date: "2026-07-02"}
	if err := mileages.Create(ctx, keepEntry); err != nil {
		t.Fatal(err)
	}

	if err := cars.Delete(ctx, car); err != nil {
		t.Fatalf("cascade delete: %v", err)
	}

	if _, err := cars.ByIDForUser(ctx, car.ID, alice.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted car still visible: %v", err)
	}
	if _, err := parts.ByIDForUser(ctx, part.ID, alice.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("part survived car delete: %v", err)
	}
	if _, err := services.ByIDForUser(ctx, svc.ID, alice.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("service survived car delete: %v", err)
	}
	for table, want := range map[string]int64{
		"mileage_entries":   1, // the other car's entry survives
		"full_tank_entries": 0,
		"spending_entries":  0,
		"parts":             0,
		"services":          0,
	} {
		var count int64
		db.Table(table).Where("deleted_at IS NULL").Count(&count)
		if count != want {
			t.Errorf("%s: %d live rows, want %d", table, count, want)
		}
	}

	// Soft delete: the rows are still physically present.
	var raw int64
	db.Table("services").Count(&raw)
	if raw != 1 {
		t.Errorf("service row physically removed")
	}

	if _, err := mileages.ByIDForUser(ctx, keepEntry.ID, alice.ID); err != nil {
		t.Errorf("other car's entry lost: %v", err)
	}
}

func TestPartDeleteCascadesServices(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepo(db)
	cars := NewCarRepo(db)
	parts := NewPartRepo(db)
	services := NewServiceRepo(db)
	ctx := context.Background()

	alice := seedUser(t, users, "alice@example.com")
	car := seedCar(t, cars, alice.ID, "Daily")
	part := &model.Part{CarID: car.ID, Name: "Battery", Status: "old"}
	if err := parts.Create(ctx, part); err != nil {
		t.Fatal(err)
	}
	svc := &model.Service{PartID: part.ID, Date: "2026-01-10", Mileage: 39000}
	if err := services.Create(ctx, svc); err != nil {
		t.Fatal(err)
	}

	if err := parts.Delete(ctx, part); err != nil {
		t.Fatal(err)
	}
	if _, err := services.ByIDForUser(ctx, svc.ID, alice.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("service survived part delete: %v", err)
	}
}

func TestListOrdering(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepo(db)
	cars := NewCarRepo(db)
	mileages := NewMileageRepo(db)
	ctx := context.Background()

	alice := seedUser(t, users, "alice@example.com")
	car := seedCar(t, cars, alice.ID, "Daily")

	for _, date := range []string{"2026-03-01", "2026-01-15", "2026-08-20"} {
		if err := mileages.Create(ctx, &model.MileageEntry{CarID: car.ID, Mileage: 1, Date: date}); err != nil {
			t.Fatal(err)
		}
	}
	list, err := mileages.ListForCar(ctx, car.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"2026-08-20", "2026-03-01", "2026-01-15"}
	for i, e := range list {
		if e.Date != want[i] {
			t.Fatalf("position %d: got %s, want %s", i, e.Date, want[i])
		}
	}
}
