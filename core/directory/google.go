package directory

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2/google"
	admin "google.golang.org/api/admin/directory/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GoogleConfig holds settings for the Google Workspace directory.
type GoogleConfig struct {
	// CredentialsFile is the service account JSON key with domain-wide delegation.
	CredentialsFile string `mapstructure:"credentials_file" default:""`
	// AdminSubject is the Workspace admin account the service account impersonates.
	AdminSubject string `mapstructure:"admin_subject" default:""`
	// Customer is the Workspace customer id.
	Customer string `mapstructure:"customer" default:"my_customer"`
	// GroupDomain is appended to a role label to form the group email.
	GroupDomain string `mapstructure:"group_domain" default:""`
}

// googleAPI is the subset of the Admin Directory service in use.
type googleAPI interface {
	listUsers(ctx context.Context, customer, pageToken string, limit int64) (*admin.Users, error)
	insertMember(ctx context.Context, groupKey string, member *admin.Member) error
}

type adminService struct {
	svc *admin.Service
}

func (a *adminService) listUsers(ctx context.Context, customer, pageToken string, limit int64) (*admin.Users, error) {
	call := a.svc.Users.List().Customer(customer).MaxResults(limit).Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	return call.Do()
}

func (a *adminService) insertMember(ctx context.Context, groupKey string, member *admin.Member) error {
	_, err := a.svc.Members.Insert(groupKey, member).Context(ctx).Do()
	return err
}

// Google is a Directory backed by Google Workspace. Users are identified by
// their primary email and a role maps to the group <role>@<GroupDomain>.
type Google struct {
	client      googleAPI
	customer    string
	groupDomain string
}

// NewGoogle creates a Workspace directory from JWT credentials.
func NewGoogle(ctx context.Context, credentials []byte, cfg GoogleConfig) (*Google, error) {
	if cfg.GroupDomain == "" {
		return nil, fmt.Errorf("google directory: group domain is required")
	}

	params := google.CredentialsParams{
		Scopes:  []string{admin.AdminDirectoryUserReadonlyScope, admin.AdminDirectoryGroupMemberScope},
		Subject: cfg.AdminSubject,
	}
	cred, err := google.CredentialsFromJSONWithParams(ctx, credentials, params)
	if err != nil {
		return nil, fmt.Errorf("google directory: invalid credentials: %w", err)
	}

	svc, err := admin.NewService(ctx, option.WithCredentials(cred))
	if err != nil {
		return nil, fmt.Errorf("google directory: %w", err)
	}

	customer := cfg.Customer
	if customer == "" {
		customer = "my_customer"
	}
	return &Google{
		client:      &adminService{svc: svc},
		customer:    customer,
		groupDomain: cfg.GroupDomain,
	}, nil
}

// ListUsers lists one page of Workspace users.
func (g *Google) ListUsers(ctx context.Context, cursor *string, limit int32) (*Page, error) {
	var token string
	if cursor != nil {
		token = *cursor
	}

	users, err := g.client.listUsers(ctx, g.customer, token, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("google list users: %w", err)
	}

	page := &Page{Users: make([]User, 0, len(users.Users))}
	for _, u := range users.Users {
		user := User{
			Username:   u.PrimaryEmail,
			Attributes: map[string]string{"id": u.Id},
		}
		if u.Suspended {
			user.Attributes["suspended"] = "true"
		}
		page.Users = append(page.Users, user)
	}
	if users.NextPageToken != "" {
		next := users.NextPageToken
		page.NextCursor = &next
	}
	return page, nil
}

// AddUserToGroup inserts the user as a member of the role's group.
// A user that is already a member is treated as success.
func (g *Google) AddUserToGroup(ctx context.Context, username, group string) error {
	groupKey := strings.ToLower(group) + "@" + g.groupDomain
	err := g.client.insertMember(ctx, groupKey, &admin.Member{Email: username, Role: "MEMBER"})
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusConflict {
			return nil
		}
		return fmt.Errorf("google add %s to %s: %w", username, groupKey, err)
	}
	return nil
}
