package identitycognito

import (
	"context"

	"github.com/Abraxas-365/userservice/pkg/identity"
	"github.com/Abraxas-365/userservice/pkg/logx"
	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
)

// Signup registers the account under its email; the provider sends the
// confirmation code itself.
func (b *Broker) Signup(ctx context.Context, req identity.SignupRequest) (*identity.SignupResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	logx.WithField("email", req.Email).Info("Signing up user")

	attrs := []identity.Attribute{
		{Name: identity.AttrEmail, Value: req.Email},
		{Name: identity.AttrName, Value: req.DisplayName()},
	}
	if req.PhoneNumber != "" {
		attrs = append(attrs, identity.Attribute{Name: identity.AttrPhoneNumber, Value: req.PhoneNumber})
	}
	if req.ProfileImageURL != "" {
		attrs = append(attrs, identity.Attribute{Name: identity.AttrProfileImageURL, Value: req.ProfileImageURL})
	}

	out, err := b.api.SignUp(ctx, &cip.SignUpInput{
		ClientId:       aws.String(b.clientID),
		Username:       aws.String(req.Email),
		Password:       aws.String(req.Password),
		SecretHash:     b.secretHash(req.Email),
		UserAttributes: attributeTypes(attrs),
	})
	if err != nil {
		return nil, fail("signup", err)
	}

	delivery := codeDelivery("", out.CodeDeliveryDetails)
	logx.WithFields(logx.Fields{
		"email":          req.Email,
		"user_confirmed": out.UserConfirmed,
		"delivery":       delivery.DeliveryMedium,
	}).Info("User signed up")

	return &identity.SignupResult{
		Message:        "User registered successfully. Please check your email for the verification code.",
		Email:          req.Email,
		Username:       req.DisplayName(),
		UserSub:        aws.ToString(out.UserSub),
		UserConfirmed:  out.UserConfirmed,
		DeliveryMedium: delivery.DeliveryMedium,
		Destination:    delivery.Destination,
	}, nil
}

// ConfirmEmail submits the code delivered at signup.
func (b *Broker) ConfirmEmail(ctx context.Context, email, code string) (*identity.Result, error) {
	logx.WithField("email", email).Info("Confirming email")

	_, err := b.api.ConfirmSignUp(ctx, &cip.ConfirmSignUpInput{
		ClientId:         aws.String(b.clientID),
		Username:         aws.String(email),
		ConfirmationCode: aws.String(code),
		SecretHash:       b.secretHash(email),
	})
	if err != nil {
		return nil, fail("confirm_email", err)
	}

	logx.WithField("email", email).Info("Email confirmed")
	return &identity.Result{Message: "Email confirmed successfully. You can now login."}, nil
}

// ResendCode asks the provider to deliver a fresh confirmation code.
func (b *Broker) ResendCode(ctx context.Context, email string) (*identity.CodeDelivery, error) {
	logx.WithField("email", email).Info("Resending confirmation code")

	out, err := b.api.ResendConfirmationCode(ctx, &cip.ResendConfirmationCodeInput{
		ClientId:   aws.String(b.clientID),
		Username:   aws.String(email),
		SecretHash: b.secretHash(email),
	})
	if err != nil {
		return nil, fail("resend_confirmation_code", err)
	}

	return codeDelivery("Verification code has been resent to your email.", out.CodeDeliveryDetails), nil
}

// ForgotPassword starts the out-of-band reset flow.
func (b *Broker) ForgotPassword(ctx context.Context, email string) (*identity.CodeDelivery, error) {
	logx.WithField("email", email).Info("Initiating password reset")

	out, err := b.api.ForgotPassword(ctx, &cip.ForgotPasswordInput{
		ClientId:   aws.String(b.clientID),
		Username:   aws.String(email),
		SecretHash: b.secretHash(email),
	})
	if err != nil {
		return nil, fail("forgot_password", err)
	}

	return codeDelivery("Password reset code has been sent to your email.", out.CodeDeliveryDetails), nil
}

// ConfirmForgotPassword sets newPassword using the delivered reset code.
func (b *Broker) ConfirmForgotPassword(ctx context.Context, email, code, newPassword string) (*identity.Result, error) {
	logx.WithField("email", email).Info("Confirming password reset")

	_, err := b.api.ConfirmForgotPassword(ctx, &cip.ConfirmForgotPasswordInput{
		ClientId:         aws.String(b.clientID),
		Username:         aws.String(email),
		ConfirmationCode: aws.String(code),
		Password:         aws.String(newPassword),
		SecretHash:       b.secretHash(email),
	})
	if err != nil {
		return nil, fail("confirm_forgot_password", err)
	}

	logx.WithField("email", email).Info("Password reset")
	return &identity.Result{Message: "Password has been reset successfully. You can now login with your new password."}, nil
}
