package main

import (
	"fmt"
	"log"

	"github.com/pharmled/pharmledgo/internal/config"
	"github.com/pharmled/pharmledgo/internal/database"
	"github.com/pharmled/pharmledgo/internal/models"
	"github.com/pharmled/pharmledgo/internal/slotting"
	"github.com/pharmled/pharmledgo/internal/utils"
)

func main() {
	fmt.Println("🌱 PharmLED Demo Data Seeder")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("✅ Connected to database")

	fmt.Println("🔨 Running database migrations...")
	err = db.AutoMigrate(
		&models.StaffAccount{},
		&models.Patient{},
		&models.Prescription{},
		&models.Shelf{},
		&models.Slot{},
		&models.LetterSection{},
		&models.ActionLog{},
	)
	if err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	fmt.Println("✅ Migrations complete")

	var patientCount int64
	db.Model(&models.Patient{}).Count(&patientCount)
	if patientCount > 0 {
		fmt.Printf("⚠️  Database already has %d patients. Clear it first? (y/N): ", patientCount)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("❌ Aborted. Database not modified.")
			return
		}
		db.Exec("DELETE FROM prescriptions")
		db.Exec("DELETE FROM patients")
		db.Exec("DELETE FROM slots")
		db.Exec("DELETE FROM shelves")
		db.Exec("DELETE FROM letter_sections")
		fmt.Println("🗑️  Cleared existing data")
	}

	slots := slotting.NewService(db.DB)

	// Shelves: two front shelves plus a small overflow shelf
	fmt.Println("🗄️  Creating shelves...")
	for _, s := range []struct {
		name       string
		rows, cols int
	}{
		{"F", 6, 20},
		{"G", 6, 20},
		{"L", 3, 10},
	} {
		if _, err := slots.CreateShelf(s.name, s.rows, s.cols); err != nil {
			log.Fatalf("❌ Failed to create shelf %s: %v", s.name, err)
		}
		fmt.Printf("   shelf %s (%d×%d)\n", s.name, s.rows, s.cols)
	}

	if err := slots.SeedSections(); err != nil {
		log.Fatalf("❌ Failed to seed sections: %v", err)
	}

	// Letter sections: split the alphabet over the two front shelves and
	// point Overflow at shelf L
	fmt.Println("🔤 Configuring letter sections...")
	sections := []struct {
		letter, shelf, lower, upper string
	}{
		{"A", "F", "A1", "A20"},
		{"B", "F", "B1", "B20"},
		{"C", "F", "C1", "C20"},
		{"D", "F", "D1", "D20"},
		{"E", "F", "E1", "E10"},
		{"F", "F", "E11", "E20"},
		{"G", "F", "F1", "F20"},
		{"H", "G", "A1", "A20"},
		{"K", "G", "B1", "B20"},
		{"M", "G", "C1", "C10"},
		{"S", "G", "C11", "D20"},
		{"W", "G", "E1", "E20"},
		{models.OverflowLetter, "L", "A1", "C10"},
	}
	for _, sec := range sections {
		if err := slots.SetSection(sec.letter, sec.shelf, sec.lower, sec.upper); err != nil {
			log.Fatalf("❌ Failed to configure section %s: %v", sec.letter, err)
		}
	}

	// Staff account for the terminal
	hash, err := utils.HashPassword("pharmled-demo")
	if err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}
	staff := models.StaffAccount{
		Username: "demo",
		Password: hash,
		Name:     "Demo Account",
		IsActive: true,
	}
	if err := db.Create(&staff).Error; err != nil {
		log.Fatalf("❌ Failed to create staff account: %v", err)
	}
	fmt.Println("👤 Staff account: demo / pharmled-demo")

	// Patients and prescriptions, including one household sharing a bin
	fmt.Println("🧑 Creating patients...")
	patients := []models.Patient{
		{Name: "Anna Becker", Address: "Hauptstraße 12"},
		{Name: "Jonas Becker", Address: "Hauptstraße 12"},
		{Name: "Maria Schmidt", Address: "Ringweg 3"},
		{Name: "Peter Wagner", Address: "Am Markt 7"},
		{Name: "Sofia Keller", Address: "Gartenstraße 21"},
	}
	for i := range patients {
		if err := db.Create(&patients[i]).Error; err != nil {
			log.Fatalf("❌ Failed to create patient: %v", err)
		}
	}

	fmt.Println("💊 Creating prescriptions...")
	prescs := []models.Prescription{
		{PatientID: patients[0].ID, Medication: "Metformin 500mg", Quantity: 2, BasketSize: models.BasketSmall},
		{PatientID: patients[1].ID, Medication: "Ibuprofen 400mg", Quantity: 1, BasketSize: models.BasketSmall},
		{PatientID: patients[2].ID, Medication: "Insulin Kit", Quantity: 1, BasketSize: models.BasketLarge},
		{PatientID: patients[3].ID, Medication: "Ramipril 5mg", Quantity: 3, BasketSize: models.BasketSmall},
		{PatientID: patients[4].ID, Medication: "Salbutamol Inhaler", Quantity: 1, BasketSize: models.BasketSmall},
	}
	for i := range prescs {
		if err := db.Create(&prescs[i]).Error; err != nil {
			log.Fatalf("❌ Failed to create prescription: %v", err)
		}
	}

	// Auto-assign everything so the demo starts with a populated wall
	fmt.Println("🎯 Assigning slots...")
	for _, p := range prescs {
		group, err := slots.AssignAuto(p.ID)
		if err != nil {
			log.Fatalf("❌ Auto-assign failed for prescription %d: %v", p.ID, err)
		}
		if group == nil {
			fmt.Printf("   prescription %d: no free slot\n", p.ID)
			continue
		}
		fmt.Printf("   prescription %d → %v\n", p.ID, slots.LabelsForSlots(group.SlotIDs))
	}

	// The second Becker shares the first one's bin (same household)
	var anna models.Prescription
	if err := db.First(&anna, prescs[0].ID).Error; err == nil && anna.SlotID != nil {
		if err := slots.AssignFamilyBin(prescs[1].ID, *anna.SlotID); err != nil {
			log.Fatalf("❌ Family bin sharing failed: %v", err)
		}
		label, _ := slots.LabelForSlot(*anna.SlotID)
		fmt.Printf("   prescription %d shares family bin %s\n", prescs[1].ID, label)
	}

	fmt.Println("✅ Demo data seeded")
}
