package identitycognito

import (
	"time"

	"github.com/Abraxas-365/userservice/pkg/config"
	"github.com/Abraxas-365/userservice/pkg/identity"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

// Broker implements identity.Service on a Cognito user pool.
// It holds no mutable state and is safe for concurrent use.
type Broker struct {
	api          API
	userPoolID   string
	clientID     string
	clientSecret string
	now          func() time.Time
}

// Option configures a Broker.
type Option func(*Broker)

// WithClock overrides the time source used for synthesized timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Broker) {
		b.now = now
	}
}

// NewBroker creates a broker for one user pool and app client.
func NewBroker(api API, cfg config.CognitoConfig, opts ...Option) *Broker {
	b := &Broker{
		api:          api,
		userPoolID:   cfg.UserPoolID,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		now:          func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

var _ identity.Service = (*Broker)(nil)

// secretHash returns nil when the app client has no secret.
func (b *Broker) secretHash(username string) *string {
	return identity.SecretHash(username, b.clientID, b.clientSecret)
}

func (b *Broker) toUserRecord(attrs []types.AttributeType, enabled bool, internalID string) identity.UserRecord {
	return identity.ToUserRecord(attributeMap(attrs), enabled, internalID, b.now())
}

func attributeMap(attrs []types.AttributeType) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[aws.ToString(a.Name)] = aws.ToString(a.Value)
	}
	return m
}

func attributeTypes(attrs []identity.Attribute) []types.AttributeType {
	out := make([]types.AttributeType, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, types.AttributeType{Name: aws.String(a.Name), Value: aws.String(a.Value)})
	}
	return out
}

func codeDelivery(message string, d *types.CodeDeliveryDetailsType) *identity.CodeDelivery {
	out := &identity.CodeDelivery{Message: message}
	if d != nil {
		out.DeliveryMedium = string(d.DeliveryMedium)
		out.Destination = aws.ToString(d.Destination)
	}
	return out
}

func credentialPair(r *types.AuthenticationResultType) *identity.CredentialPair {
	return &identity.CredentialPair{
		Status:       identity.StatusSuccess,
		AccessToken:  aws.ToString(r.AccessToken),
		RefreshToken: aws.ToString(r.RefreshToken),
		IDToken:      aws.ToString(r.IdToken),
		TokenType:    aws.ToString(r.TokenType),
		ExpiresIn:    r.ExpiresIn,
	}
}
