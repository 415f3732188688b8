// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Camera   CameraConfig   `yaml:"camera"`
	Material MaterialConfig `yaml:"material"`
	SSAO     SSAOConfig     `yaml:"ssao"`
	Blur     BlurConfig     `yaml:"blur"`
	Assets   AssetsConfig   `yaml:"assets"`
	Logging  LoggingConfig  `yaml:"logging"`

	// Path is the file the config was loaded from or last saved to.
	Path string `yaml:"-"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// CameraConfig holds projection and orbit settings. Angles are in radians
// except FOV, which is in degrees.
type CameraConfig struct {
	FOV            float32 `yaml:"fov"`
	Near           float32 `yaml:"near"`
	Far            float32 `yaml:"far"`
	Distance       float32 `yaml:"distance"`
	MinDistance    float32 `yaml:"min_distance"`
	MaxDistance    float32 `yaml:"max_distance"`
	MinPitch       float32 `yaml:"min_pitch"`
	MaxPitch       float32 `yaml:"max_pitch"`
	Step           float32 `yaml:"step"`
	AngleIncrement float32 `yaml:"angle_increment"`
}

// MaterialConfig holds the startup surface parameters.
type MaterialConfig struct {
	Shading        string     `yaml:"shading"` // phong, texture-map, reflection, simple-pbs, ibl-pbs
	Metalness      float32    `yaml:"metalness"`
	Roughness      float32    `yaml:"roughness"`
	Albedo         [3]float32 `yaml:"albedo,flow"`
	Fresnel        [3]float32 `yaml:"fresnel,flow"`
	UseTextures    bool       `yaml:"use_textures"`
	Gamma          bool       `yaml:"gamma"`
	SkyVisible     bool       `yaml:"sky_visible"`
	DisplayTexture int        `yaml:"display_texture"` // 0 color, 1 roughness, 2 metalness
}

// SSAOConfig holds the occlusion estimator settings.
type SSAOConfig struct {
	Enabled       bool    `yaml:"enabled"`
	Algorithm     string  `yaml:"algorithm"` // horizon or sphere
	Directions    int     `yaml:"directions"`
	Samples       int     `yaml:"samples"`
	Radius        float32 `yaml:"radius"`
	BiasAngle     float32 `yaml:"bias_angle"`
	Strength      float32 `yaml:"strength"`
	Randomization bool    `yaml:"randomization"`
	RenderMode    string  `yaml:"render_mode"`
	NoiseSeed     int64   `yaml:"noise_seed"`
}

// BlurConfig holds the blur stage settings.
type BlurConfig struct {
	Enabled         bool    `yaml:"enabled"`
	Type            string  `yaml:"type"` // simple, bilateral or gaussian
	Radius          int     `yaml:"radius"`
	NormalThreshold float32 `yaml:"normal_threshold"`
	DepthThreshold  float32 `yaml:"depth_threshold"`
}

// AssetsConfig holds the startup asset paths. Cubemap entries are
// directories holding the six face images.
type AssetsConfig struct {
	Model            string `yaml:"model"`
	SpecularMap      string `yaml:"specular_map"`
	DiffuseMap       string `yaml:"diffuse_map"`
	WeightedSpecular string `yaml:"weighted_specular_map"`
	BRDFLUT          string `yaml:"brdf_lut"`
	ColorMap         string `yaml:"color_map"`
	RoughnessMap     string `yaml:"roughness_map"`
	MetalnessMap     string `yaml:"metalness_map"`
	ScreenshotDir    string `yaml:"screenshot_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Camera: CameraConfig{
			FOV:            60,
			Near:           0.0001,
			Far:            20,
			Distance:       2,
			MinDistance:    0.1,
			MaxDistance:    10,
			MinPitch:       -1.5707964,
			MaxPitch:       1.5707964,
			Step:           0.05,
			AngleIncrement: 0.08726646,
		},
		Material: MaterialConfig{
			Shading:    "phong",
			Metalness:  0,
			Roughness:  0.5,
			Albedo:     [3]float32{1, 1, 1},
			Fresnel:    [3]float32{0.2, 0.2, 0.2},
			Gamma:      true,
			SkyVisible: true,
		},
		SSAO: SSAOConfig{
			Enabled:       false,
			Algorithm:     "horizon",
			Directions:    8,
			Samples:       4,
			Radius:        0.1,
			BiasAngle:     0.1,
			Strength:      1,
			Randomization: true,
			RenderMode:    "final",
			NoiseSeed:     1,
		},
		Blur: BlurConfig{
			Enabled:         true,
			Type:            "bilateral",
			Radius:          4,
			NormalThreshold: 0.8,
			DepthThreshold:  0.01,
		},
		Assets: AssetsConfig{
			Model:         ".null",
			SpecularMap:   "textures/desert_specular",
			DiffuseMap:    "textures/desert_specular",
			ColorMap:      "textures/Metal053C_2K-PNG_Color.png",
			RoughnessMap:  "textures/Metal053C_2K-PNG_Roughness.png",
			MetalnessMap:  "textures/Metal053C_2K-PNG_Metalness.png",
			ScreenshotDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
