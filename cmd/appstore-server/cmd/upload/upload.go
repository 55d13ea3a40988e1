package upload

import (
	"fmt"
	"os"
	"path"

	"github.com/blang/semver/v4"
	"github.com/spf13/cobra"

	"github.com/centerhq/appstore-server/builder/store/database"
	"github.com/centerhq/appstore-server/builder/store/s3"
	"github.com/centerhq/appstore-server/common/config"
	"github.com/centerhq/appstore-server/common/types"
	"github.com/centerhq/appstore-server/component"
)

var (
	apkPath     string
	version     string
	versionCode int64
	changelog   []string
	features    []string
)

// Cmd is the publishing tool: it pushes an APK to the object store and then
// creates the release through the same store path the admin API uses.
var Cmd = &cobra.Command{
	Use:     "upload",
	Short:   "Upload an APK and publish it as the latest release",
	Example: uploadExample(),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := semver.Parse(version)
		if err != nil {
			return fmt.Errorf("invalid semantic version %q: %w", version, err)
		}
		if versionCode <= 0 {
			return fmt.Errorf("version code must be a positive integer")
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		err = database.InitDB(database.DBConfig{
			Dialect: database.DatabaseDialect(cfg.Database.Driver),
			DSN:     cfg.Database.DSN,
		})
		if err != nil {
			return err
		}
		s3Client, err := s3.NewMinio(cfg)
		if err != nil {
			return err
		}

		f, err := os.Open(apkPath)
		if err != nil {
			return fmt.Errorf("apk file not found: %w", err)
		}
		defer f.Close()
		stat, err := f.Stat()
		if err != nil {
			return err
		}

		objectID := path.Join(cfg.S3.ReleaseFolder, fmt.Sprintf("center-app-v%s", v))
		apkURL, err := s3Client.Upload(cmd.Context(), objectID, f, stat.Size(), s3.UploadOptions{
			ContentType: "application/vnd.android.package-archive",
			Tags: map[string]string{
				"kind": "apk",
				"os":   "android",
				"app":  "center-app",
			},
		})
		if err != nil {
			return fmt.Errorf("failed to upload apk: %w", err)
		}
		fmt.Printf("uploaded %s (%.2f MB)\n%s\n", objectID, float64(stat.Size())/(1024*1024), apkURL)

		rc := component.NewReleaseComponent(cfg, s3Client)
		release, err := rc.Create(cmd.Context(), types.CreateReleaseReq{
			Version:     v.String(),
			VersionCode: versionCode,
			ApkURL:      apkURL,
			ApkObjectID: objectID,
			ApkSize:     stat.Size(),
			Changelog:   changelog,
			Features:    features,
		})
		if err != nil {
			return fmt.Errorf("failed to create release: %w", err)
		}
		fmt.Printf("release %s (id %d) published as latest\n", release.Version, release.ID)
		return nil
	},
}

func init() {
	Cmd.Flags().StringVar(&apkPath, "apk", "", "path to the APK file")
	Cmd.Flags().StringVar(&version, "version", "", "semantic version of the release")
	Cmd.Flags().Int64Var(&versionCode, "version-code", 0, "monotonically increasing version code")
	Cmd.Flags().StringArrayVar(&changelog, "changelog", nil, "changelog entry, repeatable")
	Cmd.Flags().StringArrayVar(&features, "feature", nil, "feature entry, repeatable")
	_ = Cmd.MarkFlagRequired("apk")
	_ = Cmd.MarkFlagRequired("version")
	_ = Cmd.MarkFlagRequired("version-code")
}

func uploadExample() string {
	return `
appstore-server upload --apk app-release.apk --version 1.2.0 --version-code 12 \
  --changelog "Faster sync" --feature "Offline mode"
`
}
