// provision-user creates a user account directly in the database. There is
// no self-service signup; accounts come from the institution's roster.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskboard-dev/taskboard/internal/config"
	"github.com/taskboard-dev/taskboard/internal/domain"
	"github.com/taskboard-dev/taskboard/internal/storage/pg"
)

func main() {
	var (
		configFolder string
		name         string
		username     string
		email        string
		password     string
		role         string
	)
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.StringVar(&name, "name", "", "display name")
	flag.StringVar(&username, "username", "", "login handle")
	flag.StringVar(&email, "email", "", "email address")
	flag.StringVar(&password, "password", "", "initial password")
	flag.StringVar(&role, "role", string(domain.RoleStudent), "LECTURER, STAFF or STUDENT")
	flag.Parse()

	if name == "" || email == "" || password == "" {
		log.Fatal("name, email and password are required")
	}
	switch domain.Role(role) {
	case domain.RoleLecturer, domain.RoleStaff, domain.RoleStudent:
	default:
		log.Fatalf("unknown role %q", role)
	}

	cfg := config.MustLoad(configFolder)
	storage, err := pg.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer storage.Cleanup()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := domain.User{
		Id:       uuid.NewString(),
		Name:     name,
		Username: username,
		Email:    email,
		PassHash: string(hash),
		Role:     domain.Role(role),
	}
	if err := storage.SaveUser(user); err != nil {
		log.Fatalf("Failed to save user: %v", err)
	}

	fmt.Printf("Created user %s (%s) with role %s\n", user.Id, user.Email, user.Role)
}
