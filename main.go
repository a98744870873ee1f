package main

import (
	"context"
	"log"
	"os"
	"strings"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"google.golang.org/api/option"

	directory "github.com/camels-app/availability-sync/repos/directory"
	matchstore "github.com/camels-app/availability-sync/repos/matchstore"
	push "github.com/camels-app/availability-sync/repos/push"
	resend "github.com/camels-app/availability-sync/repos/resend"

	auth "github.com/camels-app/availability-sync/pkg/auth"

	home "github.com/camels-app/availability-sync/services/home"
	matches "github.com/camels-app/availability-sync/services/matches"
	profile "github.com/camels-app/availability-sync/services/profile"
	users "github.com/camels-app/availability-sync/services/users"
)

func main() {
	ctx := context.Background()

	projectID := os.Getenv("FIREBASE_PROJECT_ID")
	credentialsJSON := os.Getenv("FIREBASE_CREDENTIALS_JSON")
	port := os.Getenv("PORT")
	allowOrigins := os.Getenv("CORS_HOSTS")
	hostURL := os.Getenv("HOST_URL")

	credentialsOption := option.WithCredentialsJSON([]byte(credentialsJSON))

	firestoreClient, err := firestore.NewClient(ctx, projectID, credentialsOption)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	firebaseApp, err := firebase.NewApp(ctx, nil, credentialsOption)
	if err != nil {
		log.Fatalf("error initializing app: %v\n", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("error initializing auth client: %v\n", err)
	}
	messagingClient, err := firebaseApp.Messaging(ctx)
	if err != nil {
		log.Fatalf("error initializing messaging client: %v\n", err)
	}

	storeService := matchstore.NewService(firestoreClient)
	directoryService := directory.NewService(authClient)
	pushService := push.NewService(messagingClient, push.NewFirestoreLedger(firestoreClient))
	resendService := resend.NewService(firestoreClient, hostURL)

	matchesService := matches.NewMatchesService(storeService, directoryService, pushService)
	homeService := home.NewHomeService(storeService)
	usersService := users.NewUsersService(directoryService, resendService)
	profileService := profile.NewProfileService(firestoreClient)

	config := cors.DefaultConfig()
	config.AllowOrigins = strings.Split(allowOrigins, ",")
	config.AllowCredentials = true
	config.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Access-Control-Allow-Origin"}

	router := gin.Default()
	router.Use(cors.New(config))

	matchesRouter := router.Group("/matches/v1")
	matchesRouter.Use(auth.AuthMiddleware(firebaseApp))

	homeRouter := router.Group("/home/v1")
	homeRouter.Use(auth.AuthMiddleware(firebaseApp))

	usersPublicRouter := router.Group("/users/v1")
	usersRouter := router.Group("/users/v1")
	usersRouter.Use(auth.AuthMiddleware(firebaseApp))

	profileRouter := router.Group("/profile/v1")
	profileRouter.Use(auth.AuthMiddleware(firebaseApp))

	matches.NewHTTPHandler(matches.HTTPOptions{
		Service: matchesService,
		Router:  matchesRouter,
	})

	home.NewHTTPHandler(home.HTTPOptions{
		Service: homeService,
		Router:  homeRouter,
	})

	users.NewHTTPHandler(users.HTTPOptions{
		Service: usersService,
		Router:  usersRouter,
		Public:  usersPublicRouter,
	})

	profile.NewHTTPHandler(profile.HTTPOptions{
		Service: profileService,
		Router:  profileRouter,
	})

	log.Fatal(router.Run(":" + port))
}
