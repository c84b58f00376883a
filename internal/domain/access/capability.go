package access

// Capability names an operation a role may be eligible for.
type Capability string

const (
	CapCompanyCreate Capability = "company.create"
	CapCompanyUpdate Capability = "company.update"

	CapPaymentSubmit      Capability = "payment.submit"
	CapPaymentViewOwn     Capability = "payment.view_own"
	CapPaymentDecide      Capability = "payment.decide"
	CapPaymentListPending Capability = "payment.list_pending"

	CapJobCreate      Capability = "job.create"
	CapJobUpdate      Capability = "job.update"
	CapJobClose       Capability = "job.close"
	CapJobApprove     Capability = "job.approve"
	CapJobReject      Capability = "job.reject"
	CapJobListPending Capability = "job.list_pending"

	CapApplicationCreate       Capability = "application.create"
	CapApplicationUpdateStatus Capability = "application.update_status"
	CapApplicationViewOwn      Capability = "application.view_own"
	CapApplicationViewJob      Capability = "application.view_job"
	CapApplicationViewPipeline Capability = "application.view_pipeline"

	CapUserSetEnabled Capability = "user.set_enabled"
	CapUserList       Capability = "user.list"
	CapStatsView      Capability = "stats.view"

	CapNotificationView Capability = "notification.view"
)

var capabilities = map[Role]map[Capability]bool{
	RoleEmployer: {
		CapCompanyCreate:           true,
		CapCompanyUpdate:           true,
		CapPaymentSubmit:           true,
		CapPaymentViewOwn:          true,
		CapJobCreate:               true,
		CapJobUpdate:               true,
		CapJobClose:                true,
		CapApplicationUpdateStatus: true,
		CapApplicationViewJob:      true,
		CapApplicationViewPipeline: true,
		CapNotificationView:        true,
	},
	RoleAdmin: {
		CapPaymentDecide:      true,
		CapPaymentListPending: true,
		CapJobApprove:         true,
		CapJobReject:          true,
		CapJobListPending:     true,
		CapApplicationViewJob: true,
		CapUserSetEnabled:     true,
		CapUserList:           true,
		CapStatsView:          true,
		CapNotificationView:   true,
	},
	RoleJobSeeker: {
		CapApplicationCreate:  true,
		CapApplicationViewOwn: true,
		CapNotificationView:   true,
	},
}

// Can reports whether the principal's role grants the capability. It does not
// consider the enabled flag; write lockout is enforced separately.
func Can(p Principal, c Capability) bool {
	return capabilities[p.Role][c]
}

// Capabilities returns the capabilities granted to a role.
func Capabilities(r Role) []Capability {
	granted := make([]Capability, 0, len(capabilities[r]))
	for c, ok := range capabilities[r] {
		if ok {
			granted = append(granted, c)
		}
	}
	return granted
}
