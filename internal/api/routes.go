package api

import "fmt"

// Backend route table.
const (
	routeLogin  = "/login"
	routeLogout = "/logout"

	routePackingList    = "/packing/process"
	routePackingWaiting = "/packing/process/waiting"
	routePackingPrint   = "/packing/print/test"
)

func routePackingView(processID int64) string {
	return fmt.Sprintf("/packing/process/view/%d", processID)
}

func routePackingCreate(pickingID int64) string {
	return fmt.Sprintf("/packing/process/create/%d", pickingID)
}

func routePackingConfirm(orderID, processID int64) string {
	return fmt.Sprintf("/packing/process/confirm/%d/%d", orderID, processID)
}

func routePrintOrder(orderID int64) string {
	return fmt.Sprintf("/packing/print/order/%d", orderID)
}
