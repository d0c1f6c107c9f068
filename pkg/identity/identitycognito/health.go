package identitycognito

import (
	"context"
	"slices"

	"github.com/Abraxas-365/userservice/pkg/identity"
	"github.com/Abraxas-365/userservice/pkg/logx"
	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

// adminPasswordFlows are the app-client flows that allow Login's admin
// username/password authentication.
var adminPasswordFlows = []types.ExplicitAuthFlowsType{
	types.ExplicitAuthFlowsTypeAdminNoSrpAuth,
	types.ExplicitAuthFlowsTypeAllowAdminUserPasswordAuth,
}

// CheckConnection verifies that the user pool and app client exist and that
// the app client allows the admin password flow.
func (b *Broker) CheckConnection(ctx context.Context) (*identity.ConnectionReport, error) {
	logx.WithFields(logx.Fields{
		"user_pool_id":      b.userPoolID,
		"client_id":         b.clientID,
		"has_client_secret": b.clientSecret != "",
	}).Info("Checking identity provider connection")

	pool, err := b.api.DescribeUserPool(ctx, &cip.DescribeUserPoolInput{
		UserPoolId: aws.String(b.userPoolID),
	})
	if err != nil {
		return b.connectionFailure(err)
	}

	client, err := b.api.DescribeUserPoolClient(ctx, &cip.DescribeUserPoolClientInput{
		UserPoolId: aws.String(b.userPoolID),
		ClientId:   aws.String(b.clientID),
	})
	if err != nil {
		return b.connectionFailure(err)
	}

	report := &identity.ConnectionReport{}
	if pool.UserPool != nil {
		report.UserPool = aws.ToString(pool.UserPool.Name)
	}

	var flows []types.ExplicitAuthFlowsType
	if client.UserPoolClient != nil {
		report.AppClient = aws.ToString(client.UserPoolClient.ClientName)
		flows = client.UserPoolClient.ExplicitAuthFlows
	}
	for _, f := range flows {
		report.AuthFlows = append(report.AuthFlows, string(f))
	}

	if !slices.ContainsFunc(flows, func(f types.ExplicitAuthFlowsType) bool {
		return slices.Contains(adminPasswordFlows, f)
	}) {
		logx.WithField("auth_flows", report.AuthFlows).Error("Admin password auth flow is not enabled on the app client")
		report.Status = "error"
		report.Message = "ADMIN_NO_SRP_AUTH not enabled in app client"
		report.RequiredAction = "Enable ALLOW_ADMIN_USER_PASSWORD_AUTH in Cognito app client settings"
		return report, nil
	}

	report.Status = "success"
	report.Message = "Cognito connection successful"
	return report, nil
}

// connectionFailure turns provider errors into an error report; only
// failures that never reached the provider are returned as errors.
func (b *Broker) connectionFailure(err error) (*identity.ConnectionReport, error) {
	perr, ok := providerErrorFrom(err)
	if !ok {
		return nil, fail("test_connection", err)
	}

	logx.WithFields(logx.Fields{
		"provider_code":    perr.Code,
		"provider_message": perr.Message,
	}).Error("Identity provider connection check failed")

	return &identity.ConnectionReport{
		Status:  "error",
		Message: perr.Message,
		Code:    perr.Code,
	}, nil
}
