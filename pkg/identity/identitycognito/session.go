package identitycognito

import (
	"context"

	"github.com/Abraxas-365/userservice/pkg/identity"
	"github.com/Abraxas-365/userservice/pkg/logx"
	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

// Auth parameter keys of the admin auth flows.
const (
	paramUsername     = "USERNAME"
	paramPassword     = "PASSWORD"
	paramSecretHash   = "SECRET_HASH"
	paramRefreshToken = "REFRESH_TOKEN"
)

// Login runs the admin username/password flow. Challenges are not negotiated.
func (b *Broker) Login(ctx context.Context, username, password string) (*identity.CredentialPair, error) {
	logx.WithField("username", username).Info("Login attempt")

	params := map[string]string{
		paramUsername: username,
		paramPassword: password,
	}
	if hash := b.secretHash(username); hash != nil {
		params[paramSecretHash] = *hash
	}

	out, err := b.api.AdminInitiateAuth(ctx, &cip.AdminInitiateAuthInput{
		UserPoolId:     aws.String(b.userPoolID),
		ClientId:       aws.String(b.clientID),
		AuthFlow:       types.AuthFlowTypeAdminNoSrpAuth,
		AuthParameters: params,
	})
	if err != nil {
		return nil, fail("login", err)
	}

	if out.AuthenticationResult == nil {
		logx.WithFields(logx.Fields{
			"username":  username,
			"challenge": out.ChallengeName,
		}).Warn("Login returned a challenge instead of tokens")
		return nil, identity.ErrRegistry.New(identity.CodeChallengeRequired).
			WithDetail("challenge", string(out.ChallengeName))
	}

	logx.WithField("username", username).Info("Login successful")
	return credentialPair(out.AuthenticationResult), nil
}

// Logout revokes every token issued to the bearer, on all devices.
func (b *Broker) Logout(ctx context.Context, accessToken string) (*identity.Result, error) {
	if _, err := b.api.GlobalSignOut(ctx, &cip.GlobalSignOutInput{
		AccessToken: aws.String(accessToken),
	}); err != nil {
		return nil, fail("logout", err)
	}

	logx.Info("User logged out")
	return &identity.Result{Message: "User logged out successfully"}, nil
}

// RefreshToken renews the access and ID tokens. The refresh flow never
// carries SECRET_HASH and never returns a new refresh token.
func (b *Broker) RefreshToken(ctx context.Context, refreshToken string) (*identity.CredentialPair, error) {
	out, err := b.api.AdminInitiateAuth(ctx, &cip.AdminInitiateAuthInput{
		UserPoolId:     aws.String(b.userPoolID),
		ClientId:       aws.String(b.clientID),
		AuthFlow:       types.AuthFlowTypeRefreshTokenAuth,
		AuthParameters: map[string]string{paramRefreshToken: refreshToken},
	})
	if err != nil {
		return nil, fail("refresh_token", err)
	}
	if out.AuthenticationResult == nil {
		return nil, identity.ErrRegistry.New(identity.CodeChallengeRequired).
			WithDetail("challenge", string(out.ChallengeName))
	}

	pair := credentialPair(out.AuthenticationResult)
	pair.RefreshToken = ""
	return pair, nil
}
