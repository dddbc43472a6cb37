package database

import (
	"context"
	"errors"
	"log"

	"chronoboard/config"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

var (
	// FirestoreClient backs the school repository.
	FirestoreClient *firestore.Client
	// FCMClient delivers ring notifications; nil unless FCM_ENABLED.
	FCMClient *messaging.Client
)

// FirebaseInit initializes the Firebase App, Firestore and (optionally) Messaging.
func FirebaseInit() {
	ctx := context.Background()

	var opts []option.ClientOption
	if file := config.AppConfig.FirebaseCredentialsFile; file != "" {
		opts = append(opts, option.WithCredentialsFile(file))
	}
	var fbConfig *firebase.Config
	if pid := config.AppConfig.FirebaseProjectID; pid != "" {
		fbConfig = &firebase.Config{ProjectID: pid}
	}

	app, err := firebase.NewApp(ctx, fbConfig, opts...)
	if err != nil {
		log.Fatalf("firebase: error initializing app: %v", err)
	}

	FirestoreClient, err = app.Firestore(ctx)
	if err != nil {
		log.Fatalf("firebase: error getting Firestore client: %v", err)
	}

	if config.AppConfig.FCMEnabled {
		FCMClient, err = app.Messaging(ctx)
		if err != nil {
			log.Fatalf("firebase: error getting Messaging client: %v", err)
		}
	}
}

// CloseFirebase releases the Firestore connection.
func CloseFirebase() error {
	if FirestoreClient == nil {
		return nil
	}
	return FirestoreClient.Close()
}

// PingFirestore reads at most one school document.
func PingFirestore(ctx context.Context) error {
	it := FirestoreClient.Collection("schools").Limit(1).Documents(ctx)
	defer it.Stop()
	_, err := it.Next()
	if errors.Is(err, iterator.Done) {
		return nil
	}
	return err
}
