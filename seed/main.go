// Command seed creates a demo school with a full day schedule and a few
// information board slides in the configured store.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"chronoboard/config"
	"chronoboard/database"
	auditlogRepo "chronoboard/database/repository/auditlog"
	schoolRepo "chronoboard/database/repository/school"
	"chronoboard/models"
	"chronoboard/services/school"
	"chronoboard/utils"
)

var demoSchedule = []models.ScheduleItem{
	{Name: "Lesson 1", StartTime: "08:00", EndTime: "08:45"},
	{Name: "Lesson 2", StartTime: "09:00", EndTime: "09:45"},
	{Name: "Break", StartTime: "09:45", EndTime: "10:00"},
	{Name: "Lesson 3", StartTime: "10:00", EndTime: "10:45"},
	{Name: "Lesson 4", StartTime: "11:00", EndTime: "11:45"},
	{Name: "Lunch", Kind: models.KindBreak, StartTime: "11:45", EndTime: "12:30"},
	{Name: "Lesson 5", StartTime: "12:30", EndTime: "13:15"},
}

var demoBoard = models.ContentUpdate{
	Content: "Welcome to the new school year!",
	Items: []models.BoardItem{
		{
			Title:       "Science Fair on Friday",
			Description: "Projects go on display in the assembly hall from 10:00. Parents are welcome.",
			ImageURL:    "https://picsum.photos/seed/101/1200/800",
			ImageHint:   "science fair",
		},
		{
			Title:       "Library Hours",
			Description: "The library stays open until 17:00 on weekdays for homework and reading.",
			ImageURL:    "https://picsum.photos/seed/102/1200/800",
			ImageHint:   "library",
		},
	},
}

func main() {
	id := flag.String("id", "demo-school", "school id (slug)")
	name := flag.String("name", "Demo School", "school display name")
	password := flag.String("password", "demo1234", "school admin password")
	reset := flag.Bool("reset", false, "delete the school first if it exists")
	flag.Parse()

	config.LoadConfig()
	utils.InitializeLogger()
	if config.UseMemoryStore() {
		log.Fatal("seed: STORE_BACKEND=memory has nothing to seed; use firestore")
	}

	database.FirebaseInit()
	database.InitDB()
	defer database.CloseFirebase()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	defer database.CloseDB(ctx)

	svc := school.NewDefaultSchoolService(
		schoolRepo.NewFirestoreSchoolRepo(database.FirestoreClient),
		auditlogRepo.NewMongoAuditLogRepo(database.MongoDatabase()),
		utils.NewMemorySessionStore(),
		nil,
		school.Options{DefaultTimezone: config.AppConfig.DefaultTimezone},
	)

	if *reset {
		if err := svc.DeleteSchool(ctx, *id); err != nil && !errors.Is(err, school.ErrSchoolNotFound) {
			log.Fatalf("seed: failed to delete %s: %v", *id, err)
		}
	}

	created, err := svc.CreateSchool(ctx, models.CreateSchoolRequest{
		ID:            *id,
		Name:          *name,
		AdminPassword: *password,
	})
	if err != nil {
		log.Fatalf("seed: failed to create school: %v", err)
	}

	const actor = "seed"
	if _, err := svc.ReplaceSchedule(ctx, created.ID, demoSchedule, actor); err != nil {
		log.Fatalf("seed: failed to store schedule: %v", err)
	}
	if _, err := svc.UpdateContent(ctx, created.ID, demoBoard, actor); err != nil {
		log.Fatalf("seed: failed to store board content: %v", err)
	}

	log.Printf("Seeded school %q (%s) with %d schedule items and %d board slides",
		created.Name, created.ID, len(demoSchedule), len(demoBoard.Items))
}
