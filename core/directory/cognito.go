package directory

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
)

// cognitoAPI is the subset of the Cognito user pool client in use.
type cognitoAPI interface {
	ListUsers(ctx context.Context, params *cip.ListUsersInput, optFns ...func(*cip.Options)) (*cip.ListUsersOutput, error)
	AdminAddUserToGroup(ctx context.Context, params *cip.AdminAddUserToGroupInput, optFns ...func(*cip.Options)) (*cip.AdminAddUserToGroupOutput, error)
}

// Cognito is a Directory backed by an AWS Cognito user pool.
type Cognito struct {
	client     cognitoAPI
	userPoolID string
}

// NewCognito creates a directory for the given user pool.
func NewCognito(cfg aws.Config, userPoolID string) *Cognito {
	return &Cognito{
		client:     cip.NewFromConfig(cfg),
		userPoolID: userPoolID,
	}
}

// ListUsers lists one page of pool users without requesting attributes.
func (c *Cognito) ListUsers(ctx context.Context, cursor *string, limit int32) (*Page, error) {
	out, err := c.client.ListUsers(ctx, &cip.ListUsersInput{
		UserPoolId:      aws.String(c.userPoolID),
		Limit:           aws.Int32(limit),
		PaginationToken: cursor,
		AttributesToGet: []string{},
	})
	if err != nil {
		return nil, fmt.Errorf("cognito list users: %w", err)
	}

	page := &Page{Users: make([]User, 0, len(out.Users))}
	for _, u := range out.Users {
		user := User{Username: aws.ToString(u.Username)}
		if len(u.Attributes) > 0 {
			user.Attributes = make(map[string]string, len(u.Attributes))
			for _, attr := range u.Attributes {
				user.Attributes[aws.ToString(attr.Name)] = aws.ToString(attr.Value)
			}
		}
		page.Users = append(page.Users, user)
	}

	// Cognito signals the last page by omitting the token
	if out.PaginationToken != nil && *out.PaginationToken != "" {
		page.NextCursor = out.PaginationToken
	}
	return page, nil
}

// AddUserToGroup adds the user to the pool group of the same name.
func (c *Cognito) AddUserToGroup(ctx context.Context, username, group string) error {
	_, err := c.client.AdminAddUserToGroup(ctx, &cip.AdminAddUserToGroupInput{
		UserPoolId: aws.String(c.userPoolID),
		Username:   aws.String(username),
		GroupName:  aws.String(group),
	})
	if err != nil {
		return fmt.Errorf("cognito add %s to %s: %w", username, group, err)
	}
	return nil
}
