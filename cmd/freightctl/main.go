// README: Operator CLI; quotes a shipment from the terminal and seeds Postgres from CSV exports.
package main

func main() {
	Execute()
}
