// Tracks fleet-wide performance metrics such as:

package sim

import "fmt"

// Metrics aggregates statistics about the simulation
// for final reporting. Useful for evaluating fleet performance
// and debugging dispatch/charging behavior over time.
type Metrics struct {
	RequestsCreated int // Number of requests that entered the simulation
	RequestsServiced int // Number of requests whose trip completed
	RequestsCancelled int // Number of requests that self-cancelled before dispatch
	TotalFareValue float64 // Sum of Request.Value across serviced trips

	TotalDriveEnergyKWh float64 // Sum of energy debited for vehicle movement
	TotalChargedKWh float64 // Sum of energy credited by charging

	VehicleTicksIdle int64 // Integral of vehicle-ticks spent Idle
	VehicleTicksCharging int64 // Integral of vehicle-ticks spent ChargingStation or ChargingBase
	VehicleTicksOutOfService int64 // Integral of vehicle-ticks spent OutOfService
}

// RecordTick folds one tick's end-of-tick vehicle-state snapshot into the
// running per-state tick counters. Called once per tick by Step, after
// step_vehicles.
func (m *Metrics) RecordTick(s *SimulationState) {
	for _, id := range s.VehicleIDs() {
		v, ok := s.Vehicle(id)
		if !ok {
			continue
		}
		switch v.State.Kind() {
		case StateIdle:
			m.VehicleTicksIdle++
		case StateChargingStation, StateChargingBase:
			m.VehicleTicksCharging++
		case StateOutOfService:
			m.VehicleTicksOutOfService++
		}
	}
}

// RecordRequestCreated increments the running request-created counter.
func (m *Metrics) RecordRequestCreated() {
	m.RequestsCreated++
}

// RecordRequestCancelled increments the running request-cancelled counter.
func (m *Metrics) RecordRequestCancelled() {
	m.RequestsCancelled++
}

// RecordTripCompleted credits a completed trip's fare to the running total
// and increments the serviced counter (: fare value is
// credited to Metrics on trip completion).
func (m *Metrics) RecordTripCompleted(fareValue float64) {
	m.RequestsServiced++
	m.TotalFareValue += fareValue
}

// RecordDriveEnergy accumulates energy debited for vehicle movement.
func (m *Metrics) RecordDriveEnergy(kWh float64) {
	m.TotalDriveEnergyKWh += kWh
}

// RecordChargeEnergy accumulates energy credited by charging.
func (m *Metrics) RecordChargeEnergy(kWh float64) {
	m.TotalChargedKWh += kWh
}

// Print displays aggregated metrics at the end of the simulation.
func (m *Metrics) Print(ticksRun int64) {
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Requests Created: %d\n", m.RequestsCreated)
	fmt.Printf("Requests Serviced: %d\n", m.RequestsServiced)
	fmt.Printf("Requests Cancelled: %d\n", m.RequestsCancelled)
	fmt.Printf("Total Fare Value: %.2f\n", m.TotalFareValue)
	fmt.Printf("Drive Energy (kWh): %.2f\n", m.TotalDriveEnergyKWh)
	fmt.Printf("Charged Energy (kWh): %.2f\n", m.TotalChargedKWh)
	if ticksRun > 0 {
		fmt.Printf("Avg Idle Vehicles/tick: %.2f\n", float64(m.VehicleTicksIdle)/float64(ticksRun))
		fmt.Printf("Avg Charging Vehicles/tick: %.2f\n", float64(m.VehicleTicksCharging)/float64(ticksRun))
		fmt.Printf("Avg OutOfService Vehicles/tick: %.2f\n", float64(m.VehicleTicksOutOfService)/float64(ticksRun))
	}
}
