package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zatekoja/hms-frontdesk/internal/application/services"
	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/export"
)

func loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")

			ws, err := open(cmd)
			if err != nil {
				return err
			}
			user, err := ws.Session.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			return printJSON(ws, user)
		},
	}
	cmd.Flags().String("username", "", "Username")
	cmd.Flags().String("password", "", "Password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := open(cmd)
			if err != nil {
				return err
			}
			return ws.Session.Logout(cmd.Context())
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user and token claims",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openAuthed(cmd)
			if err != nil {
				return err
			}
			claims, _ := ws.Session.Claims(cmd.Context())
			return printJSON(ws, map[string]interface{}{
				"session": ws.Session.Snapshot(),
				"claims":  claims,
			})
		},
	}
}

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the dashboard of the signed-in role",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openAuthed(cmd)
			if err != nil {
				return err
			}
			dashboard, err := ws.Dashboard.Render(cmd.Context(), ws.Session.CurrentUser())
			if err != nil {
				return err
			}
			return printJSON(ws, dashboard)
		},
	}
}

func patientsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patients",
		Short: "List patients",
		RunE: func(cmd *cobra.Command, args []string) error {
			search, _ := cmd.Flags().GetString("search")
			ws, err := openAuthed(cmd)
			if err != nil {
				return err
			}
			patients, err := ws.Patients.Search(cmd.Context(), search)
			if err != nil {
				return err
			}
			return printJSON(ws, patients)
		},
	}
	cmd.Flags().String("search", "", "Filter by name or contact number")
	return cmd
}

func queueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "queue",
		Short: "List today's patients waiting to be seen",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openAuthed(cmd)
			if err != nil {
				return err
			}
			queue, err := ws.Patients.Queue(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(ws, queue)
		},
	}
}

func appointmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "appointments",
		Short: "List appointments; doctors only see their own",
		RunE: func(cmd *cobra.Command, args []string) error {
			tab, _ := cmd.Flags().GetString("tab")
			search, _ := cmd.Flags().GetString("search")
			ws, err := openAuthed(cmd)
			if err != nil {
				return err
			}

			filter := services.AppointmentFilter{Tab: tab, Search: search}
			if user := ws.Session.CurrentUser(); user.Role == entities.RoleDoctor {
				filter.DoctorID = user.ID
			}
			appointments, err := ws.Appointments.Filter(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return printJSON(ws, appointments)
		},
	}
	cmd.Flags().String("tab", "today", "today, all, initial, follow_up, pending or completed")
	cmd.Flags().String("search", "", "Filter by patient or doctor name")
	return cmd
}

func paymentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payments",
		Short: "List payments with today's totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			xlsx, _ := cmd.Flags().GetString("xlsx")
			ws, err := openAuthed(cmd)
			if err != nil {
				return err
			}
			payments, err := ws.Payments.List(cmd.Context())
			if err != nil {
				return err
			}
			rows := ws.Dashboard.PaymentRows(cmd.Context(), payments)

			if xlsx != "" {
				f, err := os.Create(xlsx)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := export.WritePayments(f, rows, services.SummarizePayments(payments)); err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "Wrote %d payments to %s\n", len(rows), xlsx)
				return nil
			}

			today, err := ws.Payments.TodayStats(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(ws, map[string]interface{}{
				"payments": rows,
				"today":    today,
			})
		},
	}
	cmd.Flags().String("xlsx", "", "Export the payments to an xlsx workbook instead of printing them")
	return cmd
}

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List staff users",
		RunE: func(cmd *cobra.Command, args []string) error {
			role, _ := cmd.Flags().GetString("role")
			ws, err := openAuthed(cmd)
			if err != nil {
				return err
			}
			users, err := ws.Users.List(cmd.Context())
			if err != nil {
				return err
			}
			if r := entities.Role(role); r.Valid() {
				users = services.FilterByRole(users, r)
			}
			return printJSON(ws, users)
		},
	}
	cmd.Flags().String("role", "", "admin, doctor or receptionist")
	return cmd
}

func registerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a patient and collect the registration fee",
		RunE: func(cmd *cobra.Command, args []string) error {
			var info services.PatientInfo
			info.FirstName, _ = cmd.Flags().GetString("first-name")
			info.LastName, _ = cmd.Flags().GetString("last-name")
			info.ContactNumber, _ = cmd.Flags().GetString("phone")
			info.DateOfBirth, _ = cmd.Flags().GetString("dob")
			info.Address, _ = cmd.Flags().GetString("address")
			gender, _ := cmd.Flags().GetString("gender")
			info.Gender = entities.Gender(gender)

			var payment services.PaymentInfo
			payment.AssignedDoctorID, _ = cmd.Flags().GetString("doctor")
			method, _ := cmd.Flags().GetString("method")
			payment.PaymentMethod = entities.PaymentMethod(method)
			payment.Amount, _ = cmd.Flags().GetFloat64("amount")

			ws, err := openAuthed(cmd)
			if err != nil {
				return err
			}
			if _, err := ws.Wizard.SubmitInfo(cmd.Context(), info); err != nil {
				_ = printJSON(ws, nil)
				return err
			}
			result, err := ws.Wizard.SubmitPayment(cmd.Context(), payment)
			if err != nil {
				_ = printJSON(ws, nil)
				return err
			}
			if result.RedirectURL != "" {
				fmt.Println("Complete the payment at:", result.RedirectURL)
			}
			return printJSON(ws, result)
		},
	}
	cmd.Flags().String("first-name", "", "First name")
	cmd.Flags().String("last-name", "", "Last name")
	cmd.Flags().String("phone", "", "Contact number")
	cmd.Flags().String("dob", "", "Date of birth, YYYY-MM-DD")
	cmd.Flags().String("address", "", "Address")
	cmd.Flags().String("gender", string(entities.GenderMale), "M or F")
	cmd.Flags().String("doctor", "auto", "Assigned doctor id or auto")
	cmd.Flags().String("method", string(entities.PaymentMethodCash), "cash or chapa")
	cmd.Flags().Float64("amount", entities.DefaultRegistrationFee, "Registration fee")
	return cmd
}

func verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <tx_ref>",
		Short: "Verify a gateway payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := open(cmd)
			if err != nil {
				return err
			}
			return printJSON(ws, ws.Payments.HandleCallback(cmd.Context(), args[0]))
		},
	}
}
