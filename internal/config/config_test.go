package config_test

import (
	"testing"

	"github.com/blog-content-api/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("DEFAULT_PAGE_SIZE", "")
	t.Setenv("MAX_PAGE_SIZE", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Store.Driver != config.DriverPostgres {
		t.Errorf("Expected postgres driver, got %s", cfg.Store.Driver)
	}
	if cfg.Blog.DefaultPageSize != 10 {
		t.Errorf("Expected default page size 10, got %d", cfg.Blog.DefaultPageSize)
	}
	if cfg.Blog.MaxPageSize != 100 {
		t.Errorf("Expected max page size 100, got %d", cfg.Blog.MaxPageSize)
	}
	if cfg.Blog.MinSearchLength != 2 {
		t.Errorf("Expected min search length 2, got %d", cfg.Blog.MinSearchLength)
	}
}

func TestLoad_MongoDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("STORE_DRIVER", "MONGO")
	t.Setenv("MONGODB_URI", "mongodb://db:27017")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Store.Driver != config.DriverMongo {
		t.Errorf("Expected mongo driver, got %s", cfg.Store.Driver)
	}
	if cfg.Mongo.URI != "mongodb://db:27017" {
		t.Errorf("Expected URI override, got %s", cfg.Mongo.URI)
	}
}

func TestValidate(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("STORE_DRIVER", "sqlite")
	if _, err := config.Load(); err == nil {
		t.Error("Expected error for unsupported driver")
	}

	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("JWT_SECRET", "")
	if _, err := config.Load(); err == nil {
		t.Error("Expected error for missing JWT secret")
	}
}

func TestGetDSN(t *testing.T) {
	db := config.DatabaseConfig{Host: "h", Port: "5432", User: "u", Password: "p", Name: "blog", SSLMode: "disable"}
	want := "host=h port=5432 user=u password=p dbname=blog sslmode=disable"
	if got := db.GetDSN(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
