package domain

// Role is one of the fixed account categories
type Role string

const (
	RoleCustomer      Role = "customer"
	RoleBiller        Role = "biller"
	RoleOperator      Role = "operator"
	RoleWorker        Role = "worker"
	RoleDeliveryAgent Role = "delivery_agent"
	RoleDeveloper     Role = "developer"
	RoleTester        Role = "tester"
	RoleNetworkAdmin  Role = "network_admin"
	RoleDatabaseAdmin Role = "database_admin"
)

// AllRoles lists every role in the system. New roles must also be added to
// rolePermissions and OrganizationForRole.
var AllRoles = []Role{
	RoleCustomer,
	RoleBiller,
	RoleOperator,
	RoleWorker,
	RoleDeliveryAgent,
	RoleDeveloper,
	RoleTester,
	RoleNetworkAdmin,
	RoleDatabaseAdmin,
}

// ParseRole validates a role string supplied by a caller.
func ParseRole(s string) (Role, error) {
	for _, r := range AllRoles {
		if Role(s) == r {
			return r, nil
		}
	}
	return "", ErrUnknownRole
}

// Permission capability strings. These are a wire contract: downstream
// services authorize against the claim values, so renaming one is a
// breaking change.
const (
	// Customer
	PermViewMenu                = "view_menu"
	PermPlaceOrder              = "place_order"
	PermTrackOrder              = "track_order"
	PermManageProfile           = "manage_profile"
	PermViewOrderHistory        = "view_order_history"
	PermProvideDeliveryFeedback = "provide_delivery_feedback"
	PermRateDeliveredItems      = "rate_delivered_items"

	// Biller
	PermReceivePayments         = "receive_payments"
	PermManageUpiSettings       = "manage_upi_settings"
	PermViewPaymentHistory      = "view_payment_history"
	PermGeneratePaymentReports  = "generate_payment_reports"
	PermManageRestaurantProfile = "manage_restaurant_profile"
	PermViewFinancialSummary    = "view_financial_summary"
	PermProcessRefunds          = "process_refunds"

	// Operator
	PermReceiveOrders          = "receive_orders"
	PermConfirmOrders          = "confirm_orders"
	PermHandleCustomerQueries  = "handle_customer_queries"
	PermManageOrderQueue       = "manage_order_queue"
	PermCoordinateWithKitchen  = "coordinate_with_kitchen"
	PermCoordinateWithDelivery = "coordinate_with_delivery"
	PermViewOrderStatus        = "view_order_status"
	PermHandleComplaints       = "handle_complaints"

	// Worker
	PermViewOrderItems          = "view_order_items"
	PermPrepareFood             = "prepare_food"
	PermPackOrders              = "pack_orders"
	PermLabelPackages           = "label_packages"
	PermMarkOrderReady          = "mark_order_ready"
	PermDispatchToDelivery      = "dispatch_to_delivery"
	PermUpdatePreparationStatus = "update_preparation_status"

	// DeliveryAgent
	PermPickupOrders          = "pickup_orders"
	PermTransportOrders       = "transport_orders"
	PermConfirmDelivery       = "confirm_delivery"
	PermAccessDeliveryAddress = "access_delivery_address"
	PermContactCustomer       = "contact_customer"
	PermUpdateDeliveryStatus  = "update_delivery_status"
	PermReportDeliveryIssues  = "report_delivery_issues"
	PermViewDeliveryHistory   = "view_delivery_history"

	// Developer / Tester
	PermAccessAllEndpoints   = "access_all_endpoints"
	PermAccessDevelopmentAPI = "access_development_api"
	PermAccessTestingAPI     = "access_testing_api"
	PermAccessProductionAPI  = "access_production_api"
	PermViewAllLogs          = "view_all_logs"
	PermManageTestData       = "manage_test_data"
	PermRunSystemTests       = "run_system_tests"
	PermDeployApplications   = "deploy_applications"

	// NetworkAdmin
	PermAccessHealthcheckAPI = "access_healthcheck_api"
	PermViewServiceStatus    = "view_service_status"
	PermMonitorNetworkHealth = "monitor_network_health"

	// DatabaseAdmin
	PermAccessDatabase    = "access_database"
	PermManageDatabase    = "manage_database"
	PermPerformDataBackup = "perform_data_backup"
	PermOptimizeDatabase  = "optimize_database"
	PermViewDatabaseLogs  = "view_database_logs"
)

// rolePermissions is the static role catalog. It is populated once at
// package load and never mutated at runtime; registration snapshots the
// relevant entry onto the user record.
var rolePermissions = map[Role][]string{
	RoleCustomer: {
		PermViewMenu, PermPlaceOrder, PermTrackOrder, PermManageProfile,
		PermViewOrderHistory, PermProvideDeliveryFeedback, PermRateDeliveredItems,
	},
	RoleBiller: {
		PermReceivePayments, PermManageUpiSettings, PermViewPaymentHistory,
		PermGeneratePaymentReports, PermManageRestaurantProfile,
		PermViewFinancialSummary, PermProcessRefunds,
	},
	RoleOperator: {
		PermReceiveOrders, PermConfirmOrders, PermHandleCustomerQueries,
		PermManageOrderQueue, PermCoordinateWithKitchen,
		PermCoordinateWithDelivery, PermViewOrderStatus, PermHandleComplaints,
	},
	RoleWorker: {
		PermViewOrderItems, PermPrepareFood, PermPackOrders, PermLabelPackages,
		PermMarkOrderReady, PermDispatchToDelivery, PermUpdatePreparationStatus,
	},
	RoleDeliveryAgent: {
		PermPickupOrders, PermTransportOrders, PermConfirmDelivery,
		PermAccessDeliveryAddress, PermContactCustomer, PermUpdateDeliveryStatus,
		PermReportDeliveryIssues, PermViewDeliveryHistory,
	},
	RoleDeveloper: {
		PermAccessAllEndpoints, PermAccessDevelopmentAPI, PermAccessTestingAPI,
		PermAccessProductionAPI, PermViewAllLogs, PermManageTestData,
		PermRunSystemTests, PermDeployApplications,
	},
	RoleTester: {
		PermAccessAllEndpoints, PermAccessDevelopmentAPI, PermAccessTestingAPI,
		PermAccessProductionAPI, PermViewAllLogs, PermManageTestData,
		PermRunSystemTests,
	},
	RoleNetworkAdmin: {
		PermAccessHealthcheckAPI, PermViewServiceStatus, PermMonitorNetworkHealth,
	},
	RoleDatabaseAdmin: {
		PermAccessDatabase, PermManageDatabase, PermPerformDataBackup,
		PermOptimizeDatabase, PermViewDatabaseLogs,
	},
}

// PermissionsForRole returns a copy of the role's permission set. An
// unmapped role yields an empty set; callers treat that as a catalog bug.
func PermissionsForRole(role Role) []string {
	perms, ok := rolePermissions[role]
	if !ok {
		return []string{}
	}
	return append([]string(nil), perms...)
}

// Organization names derived from role
const (
	OrgExternalUsers     = "external_users"
	OrgDeliveryNetwork   = "fda_delivery_network"
	OrgITDepartment      = "fda_it_department"
	OrgDefaultRestaurant = "default_restaurant"
)

// OrganizationForRole derives the organization for a role. Restaurant
// roles may override it with a concrete restaurant name; the override is
// ignored for every other role.
func OrganizationForRole(role Role, override string) string {
	switch role {
	case RoleCustomer:
		return OrgExternalUsers
	case RoleDeliveryAgent:
		return OrgDeliveryNetwork
	case RoleDeveloper, RoleTester, RoleNetworkAdmin, RoleDatabaseAdmin:
		return OrgITDepartment
	case RoleBiller, RoleOperator, RoleWorker:
		if override != "" {
			return override
		}
		return OrgDefaultRestaurant
	}
	return OrgExternalUsers
}
