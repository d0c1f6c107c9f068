package identitycognito

import (
	"context"

	"github.com/Abraxas-365/userservice/pkg/identity"
	"github.com/Abraxas-365/userservice/pkg/logx"
	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
)

// CurrentUser resolves the bearer of accessToken. The enabled flag is not
// available on this path, so the record is always active.
func (b *Broker) CurrentUser(ctx context.Context, accessToken string) (*identity.UserRecord, error) {
	out, err := b.api.GetUser(ctx, &cip.GetUserInput{AccessToken: aws.String(accessToken)})
	if err != nil {
		return nil, fail("get_current_user", err)
	}

	user := b.toUserRecord(out.UserAttributes, true, "")
	return &user, nil
}

// ListUsers returns one page of the directory. Callers continue with the
// returned NextToken.
func (b *Broker) ListUsers(ctx context.Context, limit int, paginationToken string) (*identity.UserPage, error) {
	pageSize, err := identity.ListLimit(limit)
	if err != nil {
		return nil, err
	}

	in := &cip.ListUsersInput{
		UserPoolId: aws.String(b.userPoolID),
		Limit:      aws.Int32(pageSize),
	}
	if paginationToken != "" {
		in.PaginationToken = aws.String(paginationToken)
	}

	out, err := b.api.ListUsers(ctx, in)
	if err != nil {
		return nil, fail("get_all", err)
	}

	users := make([]identity.UserRecord, 0, len(out.Users))
	for _, u := range out.Users {
		users = append(users, b.toUserRecord(u.Attributes, u.Enabled, aws.ToString(u.Username)))
	}
	return &identity.UserPage{Users: users, NextToken: out.PaginationToken}, nil
}

// GetByUsername looks a single account up with admin privileges.
func (b *Broker) GetByUsername(ctx context.Context, username string) (*identity.UserRecord, error) {
	out, err := b.api.AdminGetUser(ctx, &cip.AdminGetUserInput{
		UserPoolId: aws.String(b.userPoolID),
		Username:   aws.String(username),
	})
	if err != nil {
		return nil, fail("get_by_username", err)
	}

	user := b.toUserRecord(out.UserAttributes, out.Enabled, aws.ToString(out.Username))
	return &user, nil
}

// UpdateUser writes only the supplied fields. An empty request makes no call.
func (b *Broker) UpdateUser(ctx context.Context, username string, req identity.UpdateRequest) (*identity.Result, error) {
	if req.IsEmpty() {
		return &identity.Result{Message: "No attributes to update"}, nil
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := b.api.AdminUpdateUserAttributes(ctx, &cip.AdminUpdateUserAttributesInput{
		UserPoolId:     aws.String(b.userPoolID),
		Username:       aws.String(username),
		UserAttributes: attributeTypes(req.Attributes()),
	}); err != nil {
		return nil, fail("update", err)
	}

	logx.WithField("username", username).Info("User updated")
	return &identity.Result{Message: "User updated successfully"}, nil
}

// DeleteUser removes the account permanently.
func (b *Broker) DeleteUser(ctx context.Context, username string) (*identity.Result, error) {
	if _, err := b.api.AdminDeleteUser(ctx, &cip.AdminDeleteUserInput{
		UserPoolId: aws.String(b.userPoolID),
		Username:   aws.String(username),
	}); err != nil {
		return nil, fail("delete", err)
	}

	logx.WithField("username", username).Info("User deleted")
	return &identity.Result{Message: "User deleted successfully"}, nil
}
