// Package seed loads demo accounts and follow edges from a YAML fixture.
package seed

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"tripmate/internal/apperr"
	"tripmate/internal/logger"
	"tripmate/internal/service"
)

type User struct {
	UserID           string `yaml:"userId"`
	Email            string `yaml:"email"`
	Password         string `yaml:"password"`
	FullName         string `yaml:"fullName"`
	Role             string `yaml:"role"`
	OrganizationName string `yaml:"organizationName"`
}

// Edge makes Follower follow Following; both are handles.
type Edge struct {
	Follower  string `yaml:"follower"`
	Following string `yaml:"following"`
}

type Fixture struct {
	Users   []User `yaml:"users"`
	Follows []Edge `yaml:"follows"`
}

type Report struct {
	Created int
	Skipped int
	Follows int
}

func Load(r io.Reader) (*Fixture, error) {
	var fx Fixture
	if err := yaml.NewDecoder(r).Decode(&fx); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &fx, nil
}

// Apply registers the fixture through the regular services. Accounts and edges
// that already exist are skipped, so a fixture can be applied repeatedly.
func Apply(ctx context.Context, svc *service.Service, fx *Fixture) (*Report, error) {
	report := &Report{}

	for _, u := range fx.Users {
		_, err := svc.Auth.Register(ctx, service.RegisterInput{
			UserID:           u.UserID,
			Email:            u.Email,
			Password:         u.Password,
			FullName:         u.FullName,
			Role:             u.Role,
			OrganizationName: u.OrganizationName,
		})
		switch {
		case err == nil:
			report.Created++
		case apperr.Is(err, apperr.KindConflict):
			report.Skipped++
			logger.Log.WithField("userId", u.UserID).Info("seed user exists")
		default:
			return report, fmt.Errorf("register %s: %w", u.UserID, err)
		}
	}

	for _, e := range fx.Follows {
		follower, err := svc.User.GetProfile(ctx, e.Follower)
		if err != nil {
			return report, fmt.Errorf("look up %s: %w", e.Follower, err)
		}

		_, err = svc.Follow.Follow(ctx, follower.ID, e.Following)
		switch {
		case err == nil:
			report.Follows++
		case apperr.Is(err, apperr.KindConflict):
		default:
			return report, fmt.Errorf("follow %s -> %s: %w", e.Follower, e.Following, err)
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"created": report.Created,
		"skipped": report.Skipped,
		"follows": report.Follows,
	}).Info("seed applied")

	return report, nil
}
