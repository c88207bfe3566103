package config

// SampleConfig returns a fully commented configuration file
func SampleConfig() string {
	return `# xraylab configuration
# RESEARCH PROTOTYPE - NOT FOR CLINICAL USE
version: "1.0"

# Remote analysis service
client:
  base_url: "http://localhost:8000"
  timeout: 30s

analysis:
  # simulated runs a local timer; remote uploads to client.base_url
  mode: simulated
  # progress advances by progress_step every tick_interval
  tick_interval: 200ms
  progress_step: 10
  # files above this size get a header-only preview
  max_preview_bytes: 10485760

output:
  # text, terminal, json or markdown
  default_format: text
  # auto, always or never
  color_mode: auto
  verbose: false
  # plain or styled interactive view
  style: styled
  # clinical, high-contrast or minimal
  theme: clinical

# Research stub API started by "xraylab serve"
server:
  addr: ":8000"
  max_upload_bytes: 10485760
`
}

// MinimalSampleConfig returns a compact configuration with the common settings
func MinimalSampleConfig() string {
	return `version: "1.0"
client:
  base_url: "http://localhost:8000"
analysis:
  mode: simulated
output:
  style: styled
`
}
