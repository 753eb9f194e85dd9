package model

type Patient struct {
	PatientID int64  `json:"patientId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Active    *bool  `json:"active,omitempty"`
}

type Doctor struct {
	DoctorID       int64  `json:"doctorId"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Department     string `json:"department"`
	Specialization string `json:"specialization"`
	Active         *bool  `json:"active,omitempty"`
}

func DoctorsInDepartment(doctors []Doctor, department string) []Doctor {
	if department == "" {
		return doctors
	}
	out := make([]Doctor, 0, len(doctors))
	for _, d := range doctors {
		if d.Department == department {
			out = append(out, d)
		}
	}
	return out
}

func FindDoctor(doctors []Doctor, id int64) (Doctor, bool) {
	for _, d := range doctors {
		if d.DoctorID == id {
			return d, true
		}
	}
	return Doctor{}, false
}
