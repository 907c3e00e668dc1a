package apigw

import (
	"github.com/aws/aws-lambda-go/events"
)

// UserID extracts the Cognito subject from the request's authorizer claims.
// Returns an unauthenticated-kind error when the claim is absent — the
// authorizer is trusted as-is, no verification happens here.
func UserID(req events.APIGatewayProxyRequest) (string, error) {
	sub := ClaimSub(req)
	if sub == "" {
		return "", &Error{Kind: KindUnauthenticated, Msg: "not authenticated"}
	}
	return sub, nil
}

// ClaimSub returns the subject claim, or "" when no claims are attached.
// Used by the analyze path where caller identity is optional.
func ClaimSub(req events.APIGatewayProxyRequest) string {
	claims, ok := req.RequestContext.Authorizer["claims"].(map[string]interface{})
	if !ok {
		return ""
	}
	sub, _ := claims["sub"].(string)
	return sub
}
