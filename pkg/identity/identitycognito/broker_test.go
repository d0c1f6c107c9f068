package identitycognito

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/Abraxas-365/userservice/pkg/config"
	"github.com/Abraxas-365/userservice/pkg/errx"
	"github.com/Abraxas-365/userservice/pkg/identity"
	"github.com/Abraxas-365/userservice/pkg/logx"
	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	cfg := logx.DefaultConfig()
	cfg.Format = logx.FormatJSON
	cfg.Output = buf
	prev := logx.GetDefaultLogger()
	logx.SetDefaultLogger(logx.NewLogger(cfg))
	t.Cleanup(func() { logx.SetDefaultLogger(prev) })
	return buf
}

func newTestBroker(t *testing.T, secret string) (*Broker, *fakeAPI) {
	t.Helper()
	captureLogs(t)
	api := newFakeAPI()
	b := NewBroker(api, config.CognitoConfig{
		UserPoolID:   "pool-1",
		ClientID:     "client-123",
		ClientSecret: secret,
	}, WithClock(func() time.Time { return fixedNow }))
	return b, api
}

// providerFailure builds an error chain shaped like the SDK's own.
func providerFailure(apiErr error, status int) error {
	return &smithy.OperationError{
		ServiceID:     "Cognito Identity Provider",
		OperationName: "Test",
		Err: &awshttp.ResponseError{
			ResponseError: &smithyhttp.ResponseError{
				Response: &smithyhttp.Response{Response: &http.Response{StatusCode: status}},
				Err:      apiErr,
			},
			RequestID: "req-42",
		},
	}
}

func attr(name, value string) types.AttributeType {
	return types.AttributeType{Name: aws.String(name), Value: aws.String(value)}
}

func TestSignupWithoutSecret(t *testing.T) {
	b, api := newTestBroker(t, "")
	api.outputs["SignUp"] = &cip.SignUpOutput{
		UserConfirmed: false,
		UserSub:       aws.String("sub-1"),
		CodeDeliveryDetails: &types.CodeDeliveryDetailsType{
			DeliveryMedium: types.DeliveryMediumTypeEmail,
			Destination:    aws.String("a***@b.com"),
		},
	}

	res, err := b.Signup(context.Background(), identity.SignupRequest{
		Email:    "a@b.com",
		Password: "Secret1!",
	})
	require.NoError(t, err)

	assert.Equal(t, "User registered successfully. Please check your email for the verification code.", res.Message)
	assert.Equal(t, "a@b.com", res.Email)
	assert.Equal(t, "a", res.Username)
	assert.Equal(t, "sub-1", res.UserSub)
	assert.False(t, res.UserConfirmed)
	assert.Equal(t, "EMAIL", res.DeliveryMedium)
	assert.Equal(t, "a***@b.com", res.Destination)

	in := api.inputs["SignUp"].(*cip.SignUpInput)
	assert.Equal(t, "a@b.com", aws.ToString(in.Username))
	assert.Equal(t, "client-123", aws.ToString(in.ClientId))
	assert.Nil(t, in.SecretHash)
	assert.Equal(t, []types.AttributeType{
		attr("email", "a@b.com"),
		attr("name", "a"),
	}, in.UserAttributes)
}

func TestSignupSendsOptionalAttributes(t *testing.T) {
	b, api := newTestBroker(t, "topsecret")

	_, err := b.Signup(context.Background(), identity.SignupRequest{
		Email:           "a@b.com",
		Username:        "ann",
		Password:        "Secret1!",
		PhoneNumber:     "+15550100",
		ProfileImageURL: "https://img/a.png",
	})
	require.NoError(t, err)

	in := api.inputs["SignUp"].(*cip.SignUpInput)
	assert.Equal(t, "e2DZSosGpbTLxIy4NWIKYU/qWW/KqYa6ER5H2TkZ+RE=", aws.ToString(in.SecretHash))
	assert.Equal(t, []types.AttributeType{
		attr("email", "a@b.com"),
		attr("name", "ann"),
		attr("phone_number", "+15550100"),
		attr("custom:profile_image_url", "https://img/a.png"),
	}, in.UserAttributes)
}

func TestSignupValidationSkipsProvider(t *testing.T) {
	b, api := newTestBroker(t, "")

	_, err := b.Signup(context.Background(), identity.SignupRequest{Email: "a@b.com", Password: "123"})
	assert.Equal(t, identity.CodePasswordTooShort.Code, errx.CodeOf(err))
	assert.Empty(t, api.calls)
}

func TestSignupExistingUser(t *testing.T) {
	b, api := newTestBroker(t, "")
	api.errs["SignUp"] = providerFailure(&types.UsernameExistsException{Message: aws.String("User already exists")}, 400)

	_, err := b.Signup(context.Background(), identity.SignupRequest{Email: "a@b.com", Password: "Secret1!"})
	assert.Equal(t, identity.CodeUserExists.Code, errx.CodeOf(err))
	assert.Equal(t, http.StatusConflict, errx.HTTPStatusOf(err))
}

func TestCodeFlowsAttachSecretHash(t *testing.T) {
	b, api := newTestBroker(t, "topsecret")
	ctx := context.Background()
	want := "e2DZSosGpbTLxIy4NWIKYU/qWW/KqYa6ER5H2TkZ+RE="

	res, err := b.ConfirmEmail(ctx, "a@b.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, "Email confirmed successfully. You can now login.", res.Message)
	confirm := api.inputs["ConfirmSignUp"].(*cip.ConfirmSignUpInput)
	assert.Equal(t, want, aws.ToString(confirm.SecretHash))
	assert.Equal(t, "123456", aws.ToString(confirm.ConfirmationCode))

	delivery, err := b.ResendCode(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "Verification code has been resent to your email.", delivery.Message)
	assert.Equal(t, want, aws.ToString(api.inputs["ResendConfirmationCode"].(*cip.ResendConfirmationCodeInput).SecretHash))

	delivery, err = b.ForgotPassword(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "Password reset code has been sent to your email.", delivery.Message)
	assert.Equal(t, want, aws.ToString(api.inputs["ForgotPassword"].(*cip.ForgotPasswordInput).SecretHash))

	res, err = b.ConfirmForgotPassword(ctx, "a@b.com", "654321", "NewSecret1!")
	require.NoError(t, err)
	assert.Equal(t, "Password has been reset successfully. You can now login with your new password.", res.Message)
	reset := api.inputs["ConfirmForgotPassword"].(*cip.ConfirmForgotPasswordInput)
	assert.Equal(t, want, aws.ToString(reset.SecretHash))
	assert.Equal(t, "NewSecret1!", aws.ToString(reset.Password))
}

func TestConfirmEmailCodeMismatch(t *testing.T) {
	b, api := newTestBroker(t, "")
	api.errs["ConfirmSignUp"] = providerFailure(&types.CodeMismatchException{Message: aws.String("Invalid code")}, 400)

	_, err := b.ConfirmEmail(context.Background(), "a@b.com", "000000")
	var appErr *errx.Error
	require.True(t, errx.As(err, &appErr))
	assert.Equal(t, identity.CodeCodeMismatch.Code, appErr.Code)
	assert.Equal(t, "Invalid verification code. Please try again.", appErr.Message)
	assert.Equal(t, "confirm_email", appErr.Details["operation"])
}

func TestLogin(t *testing.T) {
	b, api := newTestBroker(t, "topsecret")
	api.outputs["AdminInitiateAuth"] = &cip.AdminInitiateAuthOutput{
		AuthenticationResult: &types.AuthenticationResultType{
			AccessToken:  aws.String("access"),
			RefreshToken: aws.String("refresh"),
			IdToken:      aws.String("id"),
			TokenType:    aws.String("Bearer"),
			ExpiresIn:    3600,
		},
	}

	pair, err := b.Login(context.Background(), "a@b.com", "Secret1!")
	require.NoError(t, err)
	assert.Equal(t, &identity.CredentialPair{
		Status:       "SUCCESS",
		AccessToken:  "access",
		RefreshToken: "refresh",
		IDToken:      "id",
		TokenType:    "Bearer",
		ExpiresIn:    3600,
	}, pair)

	in := api.inputs["AdminInitiateAuth"].(*cip.AdminInitiateAuthInput)
	assert.Equal(t, types.AuthFlowTypeAdminNoSrpAuth, in.AuthFlow)
	assert.Equal(t, "pool-1", aws.ToString(in.UserPoolId))
	assert.Equal(t, map[string]string{
		"USERNAME":    "a@b.com",
		"PASSWORD":    "Secret1!",
		"SECRET_HASH": "e2DZSosGpbTLxIy4NWIKYU/qWW/KqYa6ER5H2TkZ+RE=",
	}, in.AuthParameters)
}

func TestLoginWithoutSecretOmitsHash(t *testing.T) {
	b, api := newTestBroker(t, "")
	api.outputs["AdminInitiateAuth"] = &cip.AdminInitiateAuthOutput{
		AuthenticationResult: &types.AuthenticationResultType{AccessToken: aws.String("access")},
	}

	_, err := b.Login(context.Background(), "a@b.com", "Secret1!")
	require.NoError(t, err)

	in := api.inputs["AdminInitiateAuth"].(*cip.AdminInitiateAuthInput)
	assert.NotContains(t, in.AuthParameters, "SECRET_HASH")
}

func TestLoginUnconfirmedUser(t *testing.T) {
	b, api := newTestBroker(t, "")
	api.errs["AdminInitiateAuth"] = providerFailure(&types.UserNotConfirmedException{Message: aws.String("User is not confirmed.")}, 400)

	_, err := b.Login(context.Background(), "a@b.com", "Secret1!")
	var appErr *errx.Error
	require.True(t, errx.As(err, &appErr))
	assert.Equal(t, errx.TypeForbidden, appErr.Type)
	assert.Equal(t, http.StatusForbidden, appErr.HTTPStatus)
	assert.Equal(t, "Please verify your email before logging in. Check your inbox for the confirmation code.", appErr.Message)
}

func TestLoginWrongPasswordCarriesProviderText(t *testing.T) {
	b, api := newTestBroker(t, "")
	api.errs["AdminInitiateAuth"] = providerFailure(&types.NotAuthorizedException{Message: aws.String("Incorrect username or password.")}, 400)

	_, err := b.Login(context.Background(), "a@b.com", "wrong-pass")
	var appErr *errx.Error
	require.True(t, errx.As(err, &appErr))
	assert.Equal(t, http.StatusUnauthorized, appErr.HTTPStatus)
	assert.Equal(t, "Authentication failed: Incorrect username or password.", appErr.Message)
}

func TestLoginChallenge(t *testing.T) {
	b, api := newTestBroker(t, "")
	api.outputs["AdminInitiateAuth"] = &cip.AdminInitiateAuthOutput{
		ChallengeName: types.ChallengeNameTypeNewPasswordRequired,
		Session:       aws.String("session"),
	}

	_, err := b.Login(context.Background(), "a@b.com", "Secret1!")
	var appErr *errx.Error
	require.True(t, errx.As(err, &appErr))
	assert.Equal(t, identity.CodeChallengeRequired.Code, appErr.Code)
	assert.Equal(t, http.StatusUnauthorized, appErr.HTTPStatus)
	assert.Equal(t, "NEW_PASSWORD_REQUIRED", appErr.Details["challenge"])
}

func TestLogout(t *testing.T) {
	b, api := newTestBroker(t, "")

	res, err := b.Logout(context.Background(), "access")
	require.NoError(t, err)
	assert.Equal(t, "User logged out successfully", res.Message)
	assert.Equal(t, "access", aws.ToString(api.inputs["GlobalSignOut"].(*cip.GlobalSignOutInput).AccessToken))
}

func TestRefreshNeverSendsSecretHash(t *testing.T) {
	b, api := newTestBroker(t, "topsecret")
	api.outputs["AdminInitiateAuth"] = &cip.AdminInitiateAuthOutput{
		AuthenticationResult: &types.AuthenticationResultType{
			AccessToken:  aws.String("access-2"),
			RefreshToken: aws.String("unexpected"),
			IdToken:      aws.String("id-2"),
			TokenType:    aws.String("Bearer"),
			ExpiresIn:    3600,
		},
	}

	pair, err := b.RefreshToken(context.Background(), "refresh")
	require.NoError(t, err)
	assert.Equal(t, "access-2", pair.AccessToken)
	assert.Empty(t, pair.RefreshToken)
	assert.Equal(t, "SUCCESS", pair.Status)

	in := api.inputs["AdminInitiateAuth"].(*cip.AdminInitiateAuthInput)
	assert.Equal(t, types.AuthFlowTypeRefreshTokenAuth, in.AuthFlow)
	assert.Equal(t, map[string]string{"REFRESH_TOKEN": "refresh"}, in.AuthParameters)
}

func TestCurrentUser(t *testing.T) {
	b, api := newTestBroker(t, "")
	api.outputs["GetUser"] = &cip.GetUserOutput{
		Username: aws.String("internal-id"),
		UserAttributes: []types.AttributeType{
			attr("email", "ann@b.com"),
			attr("email_verified", "true"),
		},
	}

	user, err := b.CurrentUser(context.Background(), "access")
	require.NoError(t, err)
	assert.Equal(t, identity.UserRecord{
		Email:         "ann@b.com",
		Username:      "ann",
		IsActive:      true,
		EmailVerified: true,
		CreatedAt:     fixedNow,
		UpdatedAt:     fixedNow,
	}, *user)
}

func TestListUsers(t *testing.T) {
	b, api := newTestBroker(t, "")
	api.outputs["ListUsers"] = &cip.ListUsersOutput{
		Users: []types.UserType{
			{
				Username:   aws.String("id-1"),
				Enabled:    true,
				Attributes: []types.AttributeType{attr("name", "ann"), attr("email", "ann@b.com")},
			},
			{
				Username: aws.String("id-2"),
				Enabled:  false,
			},
		},
		PaginationToken: aws.String("next"),
	}

	page, err := b.ListUsers(context.Background(), 0, "")
	require.NoError(t, err)
	require.Len(t, page.Users, 2)
	assert.Equal(t, "ann", page.Users[0].Username)
	assert.True(t, page.Users[0].IsActive)
	assert.Equal(t, "id-2", page.Users[1].Username)
	assert.False(t, page.Users[1].IsActive)
	assert.Equal(t, "next", aws.ToString(page.NextToken))

	in := api.inputs["ListUsers"].(*cip.ListUsersInput)
	assert.Equal(t, int32(identity.DefaultListLimit), aws.ToInt32(in.Limit))
	assert.Nil(t, in.PaginationToken)
}

func TestListUsersForwardsToken(t *testing.T) {
	b, api := newTestBroker(t, "")

	page, err := b.ListUsers(context.Background(), 5, "tok")
	require.NoError(t, err)
	assert.Empty(t, page.Users)
	assert.Nil(t, page.NextToken)

	in := api.inputs["ListUsers"].(*cip.ListUsersInput)
	assert.Equal(t, int32(5), aws.ToInt32(in.Limit))
	assert.Equal(t, "tok", aws.ToString(in.PaginationToken))
}

func TestListUsersLimitAboveMaxRejected(t *testing.T) {
	b, api := newTestBroker(t, "")

	_, err := b.ListUsers(context.Background(), 61, "")
	assert.Equal(t, identity.CodeInvalidLimit.Code, errx.CodeOf(err))
	assert.Equal(t, http.StatusBadRequest, errx.HTTPStatusOf(err))
	assert.Empty(t, api.calls)
}

func TestGetByUsername(t *testing.T) {
	b, api := newTestBroker(t, "")
	api.outputs["AdminGetUser"] = &cip.AdminGetUserOutput{
		Username:       aws.String("id-9"),
		Enabled:        false,
		UserAttributes: []types.AttributeType{attr("phone_number", "+1555")},
	}

	user, err := b.GetByUsername(context.Background(), "id-9")
	require.NoError(t, err)
	assert.Equal(t, "id-9", user.Username)
	assert.Equal(t, "+1555", user.PhoneNumber)
	assert.False(t, user.IsActive)
}

func TestGetByUsernameNotFound(t *testing.T) {
	b, api := newTestBroker(t, "")
	api.errs["AdminGetUser"] = providerFailure(&types.UserNotFoundException{Message: aws.String("User does not exist.")}, 400)

	_, err := b.GetByUsername(context.Background(), "ghost")
	assert.Equal(t, http.StatusNotFound, errx.HTTPStatusOf(err))
	assert.Equal(t, identity.CodeUserNotFound.Code, errx.CodeOf(err))
}

func TestUpdateUserEmptyMakesNoCall(t *testing.T) {
	b, api := newTestBroker(t, "")

	res, err := b.UpdateUser(context.Background(), "ann", identity.UpdateRequest{})
	require.NoError(t, err)
	assert.Equal(t, "No attributes to update", res.Message)
	assert.Empty(t, api.calls)
}

func TestUpdateUserSendsOnlySuppliedFields(t *testing.T) {
	b, api := newTestBroker(t, "")
	name := "annie"
	phone := "+15550100"

	res, err := b.UpdateUser(context.Background(), "ann", identity.UpdateRequest{Username: &name, PhoneNumber: &phone})
	require.NoError(t, err)
	assert.Equal(t, "User updated successfully", res.Message)

	in := api.inputs["AdminUpdateUserAttributes"].(*cip.AdminUpdateUserAttributesInput)
	assert.Equal(t, "ann", aws.ToString(in.Username))
	assert.Equal(t, []types.AttributeType{
		attr("name", "annie"),
		attr("phone_number", "+15550100"),
	}, in.UserAttributes)
}

func TestDeleteUser(t *testing.T) {
	b, api := newTestBroker(t, "")

	res, err := b.DeleteUser(context.Background(), "ann")
	require.NoError(t, err)
	assert.Equal(t, "User deleted successfully", res.Message)
	assert.Equal(t, []string{"AdminDeleteUser"}, api.calls)
}

func TestUnreachableProviderIsUnclassified(t *testing.T) {
	b, api := newTestBroker(t, "")
	cause := errors.New("dial tcp: connection refused")
	api.errs["GlobalSignOut"] = cause

	_, err := b.Logout(context.Background(), "access")
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)

	var appErr *errx.Error
	assert.False(t, errx.As(err, &appErr))
	assert.Equal(t, http.StatusInternalServerError, errx.HTTPStatusOf(err))
}

func TestProviderErrorLogsRequestID(t *testing.T) {
	b, api := newTestBroker(t, "")
	logs := captureLogs(t)
	api.errs["AdminDeleteUser"] = providerFailure(&smithy.GenericAPIError{Code: "InternalErrorException", Message: "boom"}, 500)

	_, err := b.DeleteUser(context.Background(), "ann")
	assert.Equal(t, identity.CodeProviderError.Code, errx.CodeOf(err))
	assert.Contains(t, logs.String(), "req-42")
	assert.Contains(t, logs.String(), "InternalErrorException")
}

func TestCheckConnection(t *testing.T) {
	b, api := newTestBroker(t, "")
	api.outputs["DescribeUserPool"] = &cip.DescribeUserPoolOutput{
		UserPool: &types.UserPoolType{Name: aws.String("users")},
	}
	api.outputs["DescribeUserPoolClient"] = &cip.DescribeUserPoolClientOutput{
		UserPoolClient: &types.UserPoolClientType{
			ClientName: aws.String("web"),
			ExplicitAuthFlows: []types.ExplicitAuthFlowsType{
				types.ExplicitAuthFlowsTypeAllowAdminUserPasswordAuth,
				types.ExplicitAuthFlowsTypeAllowRefreshTokenAuth,
			},
		},
	}

	report, err := b.CheckConnection(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Healthy())
	assert.Equal(t, "users", report.UserPool)
	assert.Equal(t, "web", report.AppClient)
	assert.Equal(t, []string{"ALLOW_ADMIN_USER_PASSWORD_AUTH", "ALLOW_REFRESH_TOKEN_AUTH"}, report.AuthFlows)
}

func TestCheckConnectionMissingAdminFlow(t *testing.T) {
	b, api := newTestBroker(t, "")
	api.outputs["DescribeUserPoolClient"] = &cip.DescribeUserPoolClientOutput{
		UserPoolClient: &types.UserPoolClientType{
			ExplicitAuthFlows: []types.ExplicitAuthFlowsType{types.ExplicitAuthFlowsTypeAllowUserSrpAuth},
		},
	}

	report, err := b.CheckConnection(context.Background())
	require.NoError(t, err)
	assert.False(t, report.Healthy())
	assert.Equal(t, "ADMIN_NO_SRP_AUTH not enabled in app client", report.Message)
	assert.NotEmpty(t, report.RequiredAction)
}

func TestCheckConnectionMissingPool(t *testing.T) {
	b, api := newTestBroker(t, "")
	api.errs["DescribeUserPool"] = providerFailure(&types.ResourceNotFoundException{Message: aws.String("User pool pool-1 does not exist.")}, 400)

	report, err := b.CheckConnection(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "error", report.Status)
	assert.Equal(t, "ResourceNotFoundException", report.Code)
	assert.Equal(t, []string{"DescribeUserPool"}, api.calls)
}
