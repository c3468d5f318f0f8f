package mcpserver

import (
	"github.com/mark3labs/bluebook/internal/renewal"
	"github.com/mark3labs/mcp-go/mcp"
)

func personalParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString(renewal.FieldFullName, mcp.Required(),
			mcp.Description("Applicant's full name, at least 2 characters"),
		),
		mcp.WithString(renewal.FieldPhoneNumber, mcp.Required(),
			mcp.Description("10 digit Nepali mobile number starting with 97 or 98"),
		),
	}
}

func vehicleParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString(renewal.FieldVehicleName, mcp.Required(),
			mcp.Description("Vehicle make and model, e.g. Honda City"),
		),
		mcp.WithString(renewal.FieldEngineCapacity, mcp.Required(),
			mcp.Description("Engine capacity in CC, a positive number"),
		),
		mcp.WithString(renewal.FieldVehicleRegistration, mcp.Required(),
			mcp.Description(`Registration number, e.g. "Ba 12 Pa 1234" or "Province-2-03-001 Cha 1234"`),
		),
		mcp.WithString(renewal.FieldLastRenewalYear,
			mcp.Description("Optional four digit year of the last renewal"),
		),
	}
}

func pickupParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString(renewal.FieldPickupAddress, mcp.Required(),
			mcp.Description("Complete pickup address with landmarks, at least 10 characters"),
		),
		mcp.WithString(renewal.FieldPickupDate, mcp.Required(),
			mcp.Description("Pickup date as YYYY-MM-DD, after today"),
		),
		mcp.WithString(renewal.FieldTimeSlot, mcp.Required(),
			mcp.Description("Preferred time slot"),
			mcp.Enum(string(renewal.SlotMorning), string(renewal.SlotAfternoon), string(renewal.SlotEvening)),
		),
	}
}

func tool(name, description string, params ...[]mcp.ToolOption) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(description)}
	for _, p := range params {
		opts = append(opts, p...)
	}
	return mcp.NewTool(name, opts...)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		tool("validate-personal-info",
			`Check the personal information section. Returns "valid" or a JSON object of field errors.`,
			personalParams()),
		s.handleValidatePersonal,
	)

	s.mcpServer.AddTool(
		tool("validate-vehicle-details",
			`Check the vehicle details section. Returns "valid" or a JSON object of field errors.`,
			vehicleParams()),
		s.handleValidateVehicle,
	)

	s.mcpServer.AddTool(
		tool("validate-pickup-details",
			`Check the pickup details section. Returns "valid" or a JSON object of field errors.`,
			pickupParams()),
		s.handleValidatePickup,
	)

	s.mcpServer.AddTool(
		tool("submit-renewal",
			"Submit a complete bluebook renewal request. Returns the receipt as JSON, or the field errors of the first section that fails.",
			personalParams(), vehicleParams(), pickupParams()),
		s.handleSubmitRenewal,
	)

	if s.store != nil {
		s.mcpServer.AddTool(
			mcp.NewTool("list-requests",
				mcp.WithDescription("List submitted renewal requests, oldest first"),
			),
			s.handleListRequests,
		)
	}
}
