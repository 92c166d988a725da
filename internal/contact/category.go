package contact

// Industry is an open category: the suggested values below are offered by
// the form, but any text is accepted.
type Industry string

const (
	IndustrySaaS                 Industry = "SaaS"
	IndustryManufacturing        Industry = "Manufacturing"
	IndustryMedicalDevices       Industry = "Medical Devices"
	IndustryIndustrialAutomation Industry = "Industrial Automation"
	IndustryRobotics             Industry = "Robotics"
	IndustrySemiconductors       Industry = "Semiconductors"
	IndustryEnergy               Industry = "Energy"
	IndustryConsulting           Industry = "Consulting"
	IndustryOther                Industry = "Other"
)

// ConnectionType describes how the contact was reached. Open category.
type ConnectionType string

const (
	ConnectionCold      ConnectionType = "Cold"
	ConnectionWarmIntro ConnectionType = "Warm Intro"
	ConnectionAlumni    ConnectionType = "Alumni"
	ConnectionReferral  ConnectionType = "Referral"
)

// Industries returns the suggested industry values.
func Industries() []Industry {
	return []Industry{
		IndustrySaaS,
		IndustryManufacturing,
		IndustryMedicalDevices,
		IndustryIndustrialAutomation,
		IndustryRobotics,
		IndustrySemiconductors,
		IndustryEnergy,
		IndustryConsulting,
		IndustryOther,
	}
}

// ConnectionTypes returns the suggested connection types.
func ConnectionTypes() []ConnectionType {
	return []ConnectionType{
		ConnectionCold,
		ConnectionWarmIntro,
		ConnectionAlumni,
		ConnectionReferral,
	}
}
