package cli

import (
	"bufio"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Inspector account registration",
	Long: `Register an inspector account with the report API.

Registration is a three step flow:
  reportdraft account request-code you@example.com
  reportdraft account verify you@example.com 123456
  reportdraft account register you@example.com 123456 --name "Kim"`,
}

var accountRequestCodeCmd = &cobra.Command{
	Use:   "request-code [email]",
	Short: "Send a verification code to an email address",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountRequestCode,
}

var accountVerifyCmd = &cobra.Command{
	Use:   "verify [email] [code]",
	Short: "Verify an emailed code",
	Args:  cobra.ExactArgs(2),
	RunE:  runAccountVerify,
}

var accountRegisterCmd = &cobra.Command{
	Use:   "register [email] [code]",
	Short: "Register an account, prompting for the password",
	Args:  cobra.ExactArgs(2),
	RunE:  runAccountRegister,
}

func init() {
	accountRegisterCmd.Flags().String("name", "", "Inspector name")
	accountRegisterCmd.Flags().String("company", "", "Company name")
	accountCmd.AddCommand(accountRequestCodeCmd)
	accountCmd.AddCommand(accountVerifyCmd)
	accountCmd.AddCommand(accountRegisterCmd)
	rootCmd.AddCommand(accountCmd)
}

func runAccountRequestCode(cmd *cobra.Command, args []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}
	if err := envelopeErr(reportService.RequestEmailCode(cmd.Context(), args[0])); err != nil {
		return err
	}
	cmd.Printf("Verification code sent to %s\n", args[0])
	return nil
}

func runAccountVerify(cmd *cobra.Command, args []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}
	if err := envelopeErr(reportService.VerifyEmailCode(cmd.Context(), args[0], args[1])); err != nil {
		return err
	}
	cmd.Println("Email verified.")
	return nil
}

func runAccountRegister(cmd *cobra.Command, args []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}
	name, _ := cmd.Flags().GetString("name")
	company, _ := cmd.Flags().GetString("company")

	reader := bufio.NewReader(cmd.InOrStdin())
	if name == "" {
		cmd.Print("Name: ")
		name = readLine(reader)
	}
	cmd.Print("Password: ")
	password := readPassword(reader)

	env := reportService.Register(cmd.Context(), domain.Registration{
		Email:    args[0],
		Code:     args[1],
		Name:     name,
		Company:  company,
		Password: password,
	})
	if err := envelopeErr(env); err != nil {
		return err
	}
	cmd.Printf("Registered %s\n", args[0])
	return nil
}

// envelopeErr turns a failed API envelope into an error.
func envelopeErr(env domain.Envelope) error {
	if env.OK {
		return nil
	}
	if env.Error == "" {
		return errors.New("request failed")
	}
	return fmt.Errorf("request failed: %s", env.Error)
}
