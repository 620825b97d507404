package internaldefs

import (
	authcore "github.com/keiruna/authcore"
)

// CounterDef defines a public type used by authcore APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   authcore.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the authentication core.
var CounterDefs = []CounterDef{
	{ID: authcore.MetricLoginSuccess, Name: "authcore_login_success_total", Help: "Successful login attempts."},
	{ID: authcore.MetricLoginFailure, Name: "authcore_login_failure_total", Help: "Failed login attempts."},
	{ID: authcore.MetricSessionCreated, Name: "authcore_session_created_total", Help: "Created sessions."},
	{ID: authcore.MetricSessionInvalidated, Name: "authcore_session_invalidated_total", Help: "Invalidated sessions."},
	{ID: authcore.MetricLogout, Name: "authcore_logout_total", Help: "Single-session logout operations."},
	{ID: authcore.MetricLogoutAll, Name: "authcore_logout_all_total", Help: "Logout-all operations."},
	{ID: authcore.MetricAccountCreationSuccess, Name: "authcore_account_creation_success_total", Help: "Successful account creations."},
	{ID: authcore.MetricAccountCreationDuplicate, Name: "authcore_account_creation_duplicate_total", Help: "Account creation attempts rejected as duplicate."},
	{ID: authcore.MetricPasswordResetRequest, Name: "authcore_password_reset_request_total", Help: "Password reset requests."},
	{ID: authcore.MetricPasswordResetConfirmSuccess, Name: "authcore_password_reset_confirm_success_total", Help: "Successful password reset confirmations."},
	{ID: authcore.MetricPasswordResetConfirmFailure, Name: "authcore_password_reset_confirm_failure_total", Help: "Failed password reset confirmations."},
	{ID: authcore.MetricPasswordResetAttemptsExceeded, Name: "authcore_password_reset_attempts_exceeded_total", Help: "Password reset challenges invalidated due to attempt cap."},
	{ID: authcore.MetricAuthorizeNotRequired, Name: "authcore_authorize_not_required_total", Help: "Authorization checks on excluded paths."},
	{ID: authcore.MetricAuthorizeAuthorized, Name: "authcore_authorize_authorized_total", Help: "Authorization checks that resolved a user."},
	{ID: authcore.MetricAuthorizeUnauthenticated, Name: "authcore_authorize_unauthenticated_total", Help: "Authorization checks with no usable credential."},
	{ID: authcore.MetricAuthorizeForbidden, Name: "authcore_authorize_forbidden_total", Help: "Authorization checks with a rejected credential."},
	{ID: authcore.MetricBearerIssued, Name: "authcore_bearer_issued_total", Help: "Issued bearer tokens."},
}

// AuditDroppedName is an exported constant or variable used by the authentication core.
const AuditDroppedName = "authcore_audit_dropped_total"

// AuditDroppedHelp is an exported constant or variable used by the authentication core.
const AuditDroppedHelp = "Dropped audit events due to dispatcher backpressure."
