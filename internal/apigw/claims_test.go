package apigw

import (
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"
)

func requestWithSub(sub string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{
		RequestContext: events.APIGatewayProxyRequestContext{
			Authorizer: map[string]interface{}{
				"claims": map[string]interface{}{"sub": sub},
			},
		},
	}
}

func TestUserID_Present(t *testing.T) {
	id, err := UserID(requestWithSub("user-42"))
	if err != nil {
		t.Fatalf("UserID returned error: %v", err)
	}
	if id != "user-42" {
		t.Errorf("UserID = %q, want %q", id, "user-42")
	}
}

func TestUserID_NoAuthorizer(t *testing.T) {
	_, err := UserID(events.APIGatewayProxyRequest{})
	if err == nil {
		t.Fatal("expected error for missing claims")
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *apigw.Error, got %T", err)
	}
	if apiErr.Kind != KindUnauthenticated {
		t.Errorf("Kind = %v, want KindUnauthenticated", apiErr.Kind)
	}
}

func TestUserID_EmptySub(t *testing.T) {
	_, err := UserID(requestWithSub(""))
	if err == nil {
		t.Fatal("expected error for empty sub")
	}
}

func TestClaimSub_WrongType(t *testing.T) {
	req := events.APIGatewayProxyRequest{
		RequestContext: events.APIGatewayProxyRequestContext{
			Authorizer: map[string]interface{}{"claims": "not-a-map"},
		},
	}
	if sub := ClaimSub(req); sub != "" {
		t.Errorf("ClaimSub = %q, want empty", sub)
	}
}
