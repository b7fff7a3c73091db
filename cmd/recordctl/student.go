package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aanand-mishra/records-api/internal/store"
	"github.com/aanand-mishra/records-api/internal/types"
)

func newStudentCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "student",
		Aliases: []string{"students"},
		Short:   "Manage students and their courses",
	}
	cmd.AddCommand(
		newStudentListCmd(c),
		newStudentGetCmd(c),
		newStudentAddCmd(c),
		newStudentUpdateCmd(c),
		newStudentDeleteCmd(c),
		newStudentAddCourseCmd(c),
		newStudentRemoveCourseCmd(c),
	)
	return cmd
}

func newStudentListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List students",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := c.app.Students.List(cmd.Context())
			if err != nil {
				return err
			}
			return c.printStudents(cmd, list)
		},
	}
}

func newStudentGetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, found, err := c.app.Students.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%w: student %d", store.ErrNotFound, id)
			}
			return c.printStudents(cmd, []types.Student{s})
		},
	}
}

func newStudentAddCmd(c *cli) *cobra.Command {
	var (
		name    string
		age     float64
		courses []string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a student",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stored, err := c.app.Students.Enroll(cmd.Context(), name, age, courses...)
			if err != nil {
				return err
			}
			return c.printStudents(cmd, []types.Student{stored})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "unique student name")
	cmd.Flags().Float64Var(&age, "age", 0, "student age")
	cmd.Flags().StringSliceVar(&courses, "course", nil, "course to enroll in (repeatable)")
	return cmd
}

func newStudentUpdateCmd(c *cli) *cobra.Command {
	var (
		name    string
		age     float64
		courses []string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the given fields of a student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var patch types.StudentPatch
			f := cmd.Flags()
			if f.Changed("name") {
				patch.Name = &name
			}
			if f.Changed("age") {
				patch.Age = &age
			}
			if f.Changed("courses") {
				patch.Courses = &courses
			}

			updated, err := c.app.Students.Update(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			return c.printStudents(cmd, []types.Student{updated})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "student name")
	cmd.Flags().Float64Var(&age, "age", 0, "student age")
	cmd.Flags().StringSliceVar(&courses, "courses", nil, "replace the course list")
	return cmd
}

func newStudentDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := c.app.Students.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "student %d deleted\n", id)
			return nil
		},
	}
}

func newStudentAddCourseCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "add-course <id> <course>",
		Short: "Enroll a student in a course",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			updated, err := c.app.Students.AddCourse(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			return c.printStudents(cmd, []types.Student{updated})
		},
	}
}

func newStudentRemoveCourseCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-course <id> <course>",
		Short: "Remove a student from a course",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			updated, err := c.app.Students.RemoveCourse(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			return c.printStudents(cmd, []types.Student{updated})
		},
	}
}
