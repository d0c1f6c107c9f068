package identity

import "time"

// Provider attribute names understood by the directory.
const (
	AttrEmail             = "email"
	AttrEmailVerified     = "email_verified"
	AttrName              = "name"
	AttrPreferredUsername = "preferred_username"
	AttrPhoneNumber       = "phone_number"
	AttrProfileImageURL   = "custom:profile_image_url"
)

// StatusSuccess is the status reported with every issued CredentialPair.
const StatusSuccess = "SUCCESS"

// List bounds enforced before the provider is called.
const (
	DefaultListLimit = 20
	MaxListLimit     = 60
)

// UserRecord is the canonical user shape returned by every user-producing call.
type UserRecord struct {
	Email           string    `json:"email"`
	Username        string    `json:"username"`
	PhoneNumber     string    `json:"phone_number"`
	ProfileImageURL string    `json:"profile_image_url"`
	IsActive        bool      `json:"is_active"`
	EmailVerified   bool      `json:"email_verified"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SignupRequest registers a new account. Empty optional fields are not sent.
type SignupRequest struct {
	Email           string `json:"email"`
	Username        string `json:"username,omitempty"`
	Password        string `json:"password"`
	PhoneNumber     string `json:"phone_number,omitempty"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
}

// DisplayName is the value stored in the "name" attribute at signup.
func (r SignupRequest) DisplayName() string {
	if r.Username != "" {
		return r.Username
	}
	return EmailLocalPart(r.Email)
}

// UpdateRequest is a partial update: nil fields are left untouched.
type UpdateRequest struct {
	Username        *string `json:"username,omitempty"`
	Email           *string `json:"email,omitempty"`
	PhoneNumber     *string `json:"phone_number,omitempty"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
}

// IsEmpty reports whether no field was supplied.
func (r UpdateRequest) IsEmpty() bool {
	return r.Username == nil && r.Email == nil && r.PhoneNumber == nil && r.ProfileImageURL == nil
}

// Attributes translates the supplied fields into provider attribute names,
// in a fixed order. Only fields in this table can ever be written.
func (r UpdateRequest) Attributes() []Attribute {
	fields := []struct {
		name  string
		value *string
	}{
		{AttrName, r.Username},
		{AttrEmail, r.Email},
		{AttrPhoneNumber, r.PhoneNumber},
		{AttrProfileImageURL, r.ProfileImageURL},
	}

	var attrs []Attribute
	for _, f := range fields {
		if f.value != nil {
			attrs = append(attrs, Attribute{Name: f.name, Value: *f.value})
		}
	}
	return attrs
}

// Attribute is a single name/value pair of the provider's attribute bag.
type Attribute struct {
	Name  string
	Value string
}

// CredentialPair holds the opaque bearer tokens issued by the provider.
// RefreshToken is empty on the refresh flow.
type CredentialPair struct {
	Status       string `json:"status"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	IDToken      string `json:"id_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int32  `json:"expires_in"`
}

// CodeDelivery describes where the provider sent a verification or reset code.
type CodeDelivery struct {
	Message        string `json:"message"`
	DeliveryMedium string `json:"code_delivery_medium"`
	Destination    string `json:"code_delivery_destination"`
}

// SignupResult is returned after a successful registration.
type SignupResult struct {
	Message        string `json:"message"`
	Email          string `json:"email"`
	Username       string `json:"username"`
	UserSub        string `json:"user_sub,omitempty"`
	UserConfirmed  bool   `json:"user_confirmed"`
	DeliveryMedium string `json:"code_delivery_medium"`
	Destination    string `json:"code_delivery_destination"`
}

// Result carries an informational message for operations with no payload.
type Result struct {
	Message string `json:"message"`
}

// UserPage is one page of directory entries.
type UserPage struct {
	Users     []UserRecord `json:"users"`
	NextToken *string      `json:"next_token"`
}

// ConnectionReport summarizes a directory/app-client health check.
type ConnectionReport struct {
	Status         string   `json:"status"`
	Message        string   `json:"message"`
	UserPool       string   `json:"user_pool,omitempty"`
	AppClient      string   `json:"app_client,omitempty"`
	AuthFlows      []string `json:"auth_flows,omitempty"`
	RequiredAction string   `json:"required_action,omitempty"`
	Code           string   `json:"code,omitempty"`
}

// Healthy reports whether the check found a usable configuration.
func (r ConnectionReport) Healthy() bool {
	return r.Status == "success"
}
