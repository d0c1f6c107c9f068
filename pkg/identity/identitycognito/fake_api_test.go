package identitycognito

import (
	"context"

	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
)

// fakeAPI records every call and replays canned outputs and errors keyed by
// operation name. A missing output yields the zero value of the output type.
type fakeAPI struct {
	calls   []string
	inputs  map[string]any
	outputs map[string]any
	errs    map[string]error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		inputs:  make(map[string]any),
		outputs: make(map[string]any),
		errs:    make(map[string]error),
	}
}

func (f *fakeAPI) record(name string, in any) error {
	f.calls = append(f.calls, name)
	f.inputs[name] = in
	return f.errs[name]
}

func output[T any](f *fakeAPI, name string) *T {
	if out, ok := f.outputs[name].(*T); ok {
		return out
	}
	return new(T)
}

func (f *fakeAPI) SignUp(_ context.Context, in *cip.SignUpInput, _ ...func(*cip.Options)) (*cip.SignUpOutput, error) {
	if err := f.record("SignUp", in); err != nil {
		return nil, err
	}
	return output[cip.SignUpOutput](f, "SignUp"), nil
}

func (f *fakeAPI) ConfirmSignUp(_ context.Context, in *cip.ConfirmSignUpInput, _ ...func(*cip.Options)) (*cip.ConfirmSignUpOutput, error) {
	if err := f.record("ConfirmSignUp", in); err != nil {
		return nil, err
	}
	return output[cip.ConfirmSignUpOutput](f, "ConfirmSignUp"), nil
}

func (f *fakeAPI) ResendConfirmationCode(_ context.Context, in *cip.ResendConfirmationCodeInput, _ ...func(*cip.Options)) (*cip.ResendConfirmationCodeOutput, error) {
	if err := f.record("ResendConfirmationCode", in); err != nil {
		return nil, err
	}
	return output[cip.ResendConfirmationCodeOutput](f, "ResendConfirmationCode"), nil
}

func (f *fakeAPI) AdminInitiateAuth(_ context.Context, in *cip.AdminInitiateAuthInput, _ ...func(*cip.Options)) (*cip.AdminInitiateAuthOutput, error) {
	if err := f.record("AdminInitiateAuth", in); err != nil {
		return nil, err
	}
	return output[cip.AdminInitiateAuthOutput](f, "AdminInitiateAuth"), nil
}

func (f *fakeAPI) GlobalSignOut(_ context.Context, in *cip.GlobalSignOutInput, _ ...func(*cip.Options)) (*cip.GlobalSignOutOutput, error) {
	if err := f.record("GlobalSignOut", in); err != nil {
		return nil, err
	}
	return output[cip.GlobalSignOutOutput](f, "GlobalSignOut"), nil
}

func (f *fakeAPI) ForgotPassword(_ context.Context, in *cip.ForgotPasswordInput, _ ...func(*cip.Options)) (*cip.ForgotPasswordOutput, error) {
	if err := f.record("ForgotPassword", in); err != nil {
		return nil, err
	}
	return output[cip.ForgotPasswordOutput](f, "ForgotPassword"), nil
}

func (f *fakeAPI) ConfirmForgotPassword(_ context.Context, in *cip.ConfirmForgotPasswordInput, _ ...func(*cip.Options)) (*cip.ConfirmForgotPasswordOutput, error) {
	if err := f.record("ConfirmForgotPassword", in); err != nil {
		return nil, err
	}
	return output[cip.ConfirmForgotPasswordOutput](f, "ConfirmForgotPassword"), nil
}

func (f *fakeAPI) GetUser(_ context.Context, in *cip.GetUserInput, _ ...func(*cip.Options)) (*cip.GetUserOutput, error) {
	if err := f.record("GetUser", in); err != nil {
		return nil, err
	}
	return output[cip.GetUserOutput](f, "GetUser"), nil
}

func (f *fakeAPI) ListUsers(_ context.Context, in *cip.ListUsersInput, _ ...func(*cip.Options)) (*cip.ListUsersOutput, error) {
	if err := f.record("ListUsers", in); err != nil {
		return nil, err
	}
	return output[cip.ListUsersOutput](f, "ListUsers"), nil
}

func (f *fakeAPI) AdminGetUser(_ context.Context, in *cip.AdminGetUserInput, _ ...func(*cip.Options)) (*cip.AdminGetUserOutput, error) {
	if err := f.record("AdminGetUser", in); err != nil {
		return nil, err
	}
	return output[cip.AdminGetUserOutput](f, "AdminGetUser"), nil
}

func (f *fakeAPI) AdminUpdateUserAttributes(_ context.Context, in *cip.AdminUpdateUserAttributesInput, _ ...func(*cip.Options)) (*cip.AdminUpdateUserAttributesOutput, error) {
	if err := f.record("AdminUpdateUserAttributes", in); err != nil {
		return nil, err
	}
	return output[cip.AdminUpdateUserAttributesOutput](f, "AdminUpdateUserAttributes"), nil
}

func (f *fakeAPI) AdminDeleteUser(_ context.Context, in *cip.AdminDeleteUserInput, _ ...func(*cip.Options)) (*cip.AdminDeleteUserOutput, error) {
	if err := f.record("AdminDeleteUser", in); err != nil {
		return nil, err
	}
	return output[cip.AdminDeleteUserOutput](f, "AdminDeleteUser"), nil
}

func (f *fakeAPI) DescribeUserPool(_ context.Context, in *cip.DescribeUserPoolInput, _ ...func(*cip.Options)) (*cip.DescribeUserPoolOutput, error) {
	if err := f.record("DescribeUserPool", in); err != nil {
		return nil, err
	}
	return output[cip.DescribeUserPoolOutput](f, "DescribeUserPool"), nil
}

func (f *fakeAPI) DescribeUserPoolClient(_ context.Context, in *cip.DescribeUserPoolClientInput, _ ...func(*cip.Options)) (*cip.DescribeUserPoolClientOutput, error) {
	if err := f.record("DescribeUserPoolClient", in); err != nil {
		return nil, err
	}
	return output[cip.DescribeUserPoolClientOutput](f, "DescribeUserPoolClient"), nil
}

var _ API = (*fakeAPI)(nil)
