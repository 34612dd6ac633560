package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sila-platform/sila-api/database"
	"github.com/sila-platform/sila-api/model"
	"gorm.io/gorm"
)

// seedPrograms is the initial catalogue of government programs. Seeding
// is idempotent: programs are matched by name and updated in place.
var seedPrograms = []model.Program{
	{
		Name:                   "Enhanced Social Security Program",
		Description:            "Provides monthly financial support to the most needy families, integrated with charities to update beneficiary data and coordinate assistance.",
		MinistryOwner:          "Ministry of Human Resources and Social Development",
		EstimatedBeneficiaries: "More than 1.8 million families",
		Status:                 model.ProgramStatusActive,
		EligibilityCriteria:    "Most needy families registered with charitable organizations",
		IconURL:                "https://cdn-icons-png.flaticon.com/512/3135/3135715.png",
	},
	{
		Name:                   "Sakani Housing Program",
		Description:            "Provides housing solutions for families registered with charities and social security, including financing or free housing units.",
		MinistryOwner:          "Ministry of Municipal, Rural Affairs and Housing",
		EstimatedBeneficiaries: "More than 150,000 families annually",
		Status:                 model.ProgramStatusActive,
		EligibilityCriteria:    "Families registered with charitable organizations and social security",
		IconURL:                "https://cdn-icons-png.flaticon.com/512/3039/3039449.png",
	},
	{
		Name:                   "Food Support Program (Food Support Card)",
		Description:            "Provides food cards or cash amounts to purchase food items for families registered with charitable organizations.",
		MinistryOwner:          "Ministry of Human Resources and Social Development in cooperation with charities",
		EstimatedBeneficiaries: "Approximately 1.2 million families",
		Status:                 model.ProgramStatusActive,
		EligibilityCriteria:    "Families registered with charitable organizations",
		IconURL:                "https://cdn-icons-png.flaticon.com/512/3081/3081559.png",
	},
	{
		Name:                   "Productive Families Financing Program",
		Description:            "Provides interest-free loans to poor families registered with charities to become productive and establish small businesses.",
		MinistryOwner:          "Social Development Bank (under the supervision of the Ministry of Human Resources and Social Development)",
		EstimatedBeneficiaries: "More than 17,000 families",
		Status:                 model.ProgramStatusActive,
		EligibilityCriteria:    "Poor families registered with charitable organizations",
		IconURL:                "https://cdn-icons-png.flaticon.com/512/3135/3135807.png",
	},
	{
		Name:                   "Home Renovation Program for Needy Families",
		Description:            "Funds maintenance and renovation of homes for needy families registered with charities, in coordination with developmental housing initiatives.",
		MinistryOwner:          "Ministry of Municipal Affairs and Housing in cooperation with local charitable organizations",
		EstimatedBeneficiaries: "Approximately 10,000 families annually",
		Status:                 model.ProgramStatusActive,
		EligibilityCriteria:    "Needy families registered with charitable organizations",
		IconURL:                "https://cdn-icons-png.flaticon.com/512/2942/2942935.png",
	},
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	// Initialize database connection using GORM
	store, err := database.StartGORM()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := store.Init(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	gormDB := store.GetDB().(*gorm.DB)

	separator := strings.Repeat("=", 60)
	fmt.Println(separator)
	fmt.Println("Sila - Program Catalogue Seeding")
	fmt.Println(separator)

	created, updated := 0, 0
	for _, seed := range seedPrograms {
		var existing model.Program
		err := gormDB.Where("name = ?", seed.Name).First(&existing).Error
		switch {
		case err == nil:
			existing.Description = seed.Description
			existing.MinistryOwner = seed.MinistryOwner
			existing.EstimatedBeneficiaries = seed.EstimatedBeneficiaries
			existing.Status = seed.Status
			existing.EligibilityCriteria = seed.EligibilityCriteria
			existing.IconURL = seed.IconURL
			if err := gormDB.Save(&existing).Error; err != nil {
				log.Fatalf("Failed to update program %q: %v", seed.Name, err)
			}
			updated++
			fmt.Printf("Updated: %s\n", seed.Name)
		case err == gorm.ErrRecordNotFound:
			if err := gormDB.Create(&seed).Error; err != nil {
				log.Fatalf("Failed to create program %q: %v", seed.Name, err)
			}
			created++
			fmt.Printf("Created: %s\n", seed.Name)
		default:
			log.Fatalf("Failed to look up program %q: %v", seed.Name, err)
		}
	}

	fmt.Println(separator)
	fmt.Printf("Loaded %d programs (%d created, %d updated)\n", len(seedPrograms), created, updated)
}
