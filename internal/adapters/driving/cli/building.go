package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
)

var buildingCmd = &cobra.Command{
	Use:   "building",
	Short: "Manage inspected buildings",
}

var buildingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List buildings",
	RunE:  runBuildingList,
}

var buildingCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a building",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuildingCreate,
}

func init() {
	buildingListCmd.Flags().String("name", "", "Filter by name")
	buildingListCmd.Flags().IntP("limit", "n", 0, "Maximum number of buildings (0 = all)")
	buildingCreateCmd.Flags().String("address", "", "Street address")
	buildingCmd.AddCommand(buildingListCmd)
	buildingCmd.AddCommand(buildingCreateCmd)
	rootCmd.AddCommand(buildingCmd)
}

func runBuildingList(cmd *cobra.Command, _ []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}
	name, _ := cmd.Flags().GetString("name")
	limit, _ := cmd.Flags().GetInt("limit")

	buildings, env := reportService.GetBuildings(cmd.Context(), domain.BuildingQuery{Name: name, Limit: limit})
	if err := envelopeErr(env); err != nil {
		return err
	}
	if len(buildings) == 0 {
		cmd.Println("No buildings found.")
		return nil
	}
	for _, b := range buildings {
		cmd.Printf("%s  %s", b.ID, b.Name)
		if b.Address != "" {
			cmd.Printf(" (%s)", b.Address)
		}
		cmd.Println()
	}
	return nil
}

func runBuildingCreate(cmd *cobra.Command, args []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}
	address, _ := cmd.Flags().GetString("address")

	b, env := reportService.CreateBuilding(cmd.Context(), args[0], address)
	if err := envelopeErr(env); err != nil {
		return err
	}
	if b != nil {
		cmd.Printf("Created building %s (%s)\n", b.Name, b.ID)
	}
	return nil
}
